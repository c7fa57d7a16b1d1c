// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"net/http"

	requestutil "github.com/claycompanion/studio/internal/platform/request"
	"github.com/claycompanion/studio/internal/platform/respond"
)

// # Studio Page

func (handler *Handler) getStudioPage(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.GetStudioPage(request.Context(), requestutil.ID(request, ParamArtistID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pageJSON{Hero: newHeroJSON(page)})
}

func (handler *Handler) updateStudioPage(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artistID := requestutil.ID(request, ParamArtistID)
	if err := authorizeArtist(callerID, artistID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodePage(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.UpdateStudioPage(request.Context(), callerID, artistID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newPageUpdateJSON(page))
}
