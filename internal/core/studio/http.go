// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claycompanion/studio/internal/platform/middleware"
	requestutil "github.com/claycompanion/studio/internal/platform/request"
	"github.com/claycompanion/studio/internal/platform/respond"
)

// Path parameters. The artist id is bound by the router that mounts the handler.
const (
	ParamArtistID = "artistID"
	ParamImageID  = "imageID"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the studio endpoints under /artists/{artistID}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/studio-images", func(images chi.Router) {
		// Public
		images.Get("/", handler.listImages)
		images.Get("/{imageID}", handler.getImage)

		// Owner only
		images.Group(func(owner chi.Router) {
			owner.Use(middleware.RequireAuth)

			owner.Post("/", handler.createImage)
			owner.Patch("/{imageID}", handler.updateImage)
			owner.Delete("/{imageID}", handler.deleteImage)
		})
	})

	router.Route("/studio-page", func(page chi.Router) {
		page.Get("/", handler.getStudioPage)
		page.With(middleware.RequireAuth).Patch("/", handler.updateStudioPage)
	})
}

func (handler *Handler) listImages(writer http.ResponseWriter, request *http.Request) {
	artistID := requestutil.ID(request, ParamArtistID)

	images, err := handler.service.ListImages(request.Context(), artistID, requestutil.Query(request, FieldCategory))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newListJSON(images))
}

func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	artistID := requestutil.ID(request, ParamArtistID)
	imageID := requestutil.ID(request, ParamImageID)

	image, err := handler.service.GetImage(request.Context(), artistID, imageID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newImageJSON(image))
}

func (handler *Handler) createImage(writer http.ResponseWriter, request *http.Request) {
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

	input, err := decodeCreate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.CreateImage(request.Context(), callerID, artistID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, newMutationJSON(image, MsgImageUploaded))
}

func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
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

	input, err := decodeUpdate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.UpdateImage(request.Context(), callerID, artistID, requestutil.ID(request, ParamImageID), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newMutationJSON(image, MsgImageUpdated))
}

func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artistID := requestutil.ID(request, ParamArtistID)
	imageID := requestutil.ID(request, ParamImageID)

	if err := handler.service.DeleteImage(request.Context(), callerID, artistID, imageID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageJSON{Message: MsgImageDeleted})
}
