// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestPgx5URL rewrites only the postgres URL schemes.
*/
func TestPgx5URL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/studio?sslmode=disable", "pgx5://u:p@db:5432/studio?sslmode=disable"},
		{"postgresql://u:p@db/studio", "pgx5://u:p@db/studio"},
		{"pgx5://u:p@db/studio", "pgx5://u:p@db/studio"},
		{"host=db user=u dbname=studio", "host=db user=u dbname=studio"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pgx5URL(tt.in))
		})
	}
}
