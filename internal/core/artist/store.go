// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import "context"

type Repository interface {
	GetArtist(context context.Context, id string) (*Artist, error)
}
