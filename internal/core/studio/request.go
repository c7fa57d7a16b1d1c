// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package studio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/claycompanion/studio/internal/platform/constants"
	requestutil "github.com/claycompanion/studio/internal/platform/request"
	"github.com/claycompanion/studio/internal/platform/validate"
)

// Request bodies may wrap their fields in these keys.
const (
	imageScope = "studio_image"
	pageScope  = "studio_page"
)

// # Multipart (create)

// decodeCreate reads a multipart create request. Fields may be flat ("caption")
// or nested ("studio_image[caption]").
func decodeCreate(request *http.Request) (CreateInput, error) {
	multipart := true
	if err := request.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return CreateInput{}, validate.FieldErr(FieldImage, "must be under 5MB. Please compress and try again.")
		case errors.Is(err, http.ErrNotMultipart):
			multipart = false
		default:
			return CreateInput{}, validate.FieldErr("", "Request body is not a valid form")
		}
	}

	input := CreateInput{
		Caption:  formField(request, FieldCaption),
		AltText:  formField(request, FieldAltText),
		Category: formField(request, FieldCategory),
	}

	if multipart {
		upload, err := readUpload(request)
		if err != nil {
			return CreateInput{}, err
		}
		input.Upload = upload
	}

	return input, nil
}

func formField(request *http.Request, name string) string {
	if value := request.FormValue(name); value != "" {
		return value
	}
	return request.FormValue(imageScope + "[" + name + "]")
}

// readUpload returns the first attached file, or nil when none was sent.
func readUpload(request *http.Request) (*Upload, error) {
	for _, name := range []string{FieldImage, imageScope + "[" + FieldImage + "]"} {
		file, header, err := request.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, validate.FieldErr(FieldImage, "could not be read. Please upload a valid JPG or PNG image.")
		}
		defer file.Close()

		// One byte past the limit is enough to report the file as too large.
		data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadBytes+1))
		if err != nil {
			return nil, validate.FieldErr(FieldImage, "could not be read. Please upload a valid JPG or PNG image.")
		}
		return &Upload{FileName: header.Filename, Data: data}, nil
	}
	return nil, nil
}

// # JSON (update)

// fields is a decoded JSON object, unwrapped from its scope key when present.
type fields map[string]json.RawMessage

func decodeFields(request *http.Request, scope string) (fields, error) {
	var body fields
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		return nil, err
	}

	if nested, ok := body[scope]; ok {
		var inner fields
		if err := json.Unmarshal(nested, &inner); err == nil && inner != nil {
			return inner, nil
		}
	}
	return body, nil
}

// text returns a field as text. Absent keys return nil. JSON null becomes "",
// numbers and booleans keep their literal spelling.
func (f fields) text(key string) (*string, error) {
	raw, ok := f[key]
	if !ok {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		empty := ""
		return &empty, nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil, validate.ErrInvalidJSON
		}
		return &value, nil
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return nil, validate.FieldErr(key, "is invalid")
	default:
		value := string(trimmed)
		return &value, nil
	}
}

// firstText returns the first present key, so that canonical names win over aliases.
func (f fields) firstText(keys ...string) (*string, error) {
	for _, key := range keys {
		if _, ok := f[key]; ok {
			return f.text(key)
		}
	}
	return nil, nil
}

// displayOrder parses display_order from a JSON integer or an integer string.
func (f fields) displayOrder() (*int, error) {
	raw, ok := f[FieldDisplayOrder]
	if !ok {
		return nil, nil
	}

	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	switch typed := value.(type) {
	case json.Number:
		number = typed
	case string:
		number = json.Number(strings.TrimSpace(typed))
	default:
		return nil, validate.FieldErr(FieldDisplayOrder, "is not a number")
	}

	return parseOrder(number)
}

func parseOrder(number json.Number) (*int, error) {
	if whole, err := strconv.ParseInt(number.String(), 10, 64); err == nil {
		return checkOrderRange(whole)
	}

	float, err := strconv.ParseFloat(number.String(), 64)
	if err != nil || math.IsNaN(float) || math.IsInf(float, 0) {
		return nil, validate.FieldErr(FieldDisplayOrder, "is not a number")
	}
	if float != math.Trunc(float) {
		return nil, validate.FieldErr(FieldDisplayOrder, "must be an integer")
	}
	if float < math.MinInt32 || float > math.MaxInt32 {
		return nil, validate.FieldErr(FieldDisplayOrder, "is out of range")
	}
	return checkOrderRange(int64(float))
}

// checkOrderRange keeps the value inside the INTEGER column.
func checkOrderRange(value int64) (*int, error) {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return nil, validate.FieldErr(FieldDisplayOrder, "is out of range")
	}
	order := int(value)
	return &order, nil
}

func decodeUpdate(request *http.Request) (UpdateInput, error) {
	body, err := decodeFields(request, imageScope)
	if err != nil {
		return UpdateInput{}, err
	}

	validator := &validate.Validator{}
	input := UpdateInput{}

	input.Caption, err = body.text(FieldCaption)
	validator.Merge(err)
	input.AltText, err = body.text(FieldAltText)
	validator.Merge(err)
	input.Category, err = body.text(FieldCategory)
	validator.Merge(err)
	input.DisplayOrder, err = body.displayOrder()
	validator.Merge(err)

	if err := validator.Err(); err != nil {
		return UpdateInput{}, err
	}
	return input, nil
}

// decodePage reads a studio page update, folding the two accepted names of each
// field into one.
func decodePage(request *http.Request) (PageInput, error) {
	body, err := decodeFields(request, pageScope)
	if err != nil {
		return PageInput{}, err
	}

	intro, err := body.firstText(FieldIntroText, "intro_text")
	if err != nil {
		return PageInput{}, err
	}

	input := PageInput{IntroText: intro, Hero: KeepHero()}

	for _, key := range []string{"studio_hero_image_id", "hero_image_id"} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		input.Hero = heroFromJSON(raw)
		break
	}

	return input, nil
}

// heroFromJSON maps null or "" to a clear, and anything else to a selection.
// Non-string ids fail later as not belonging to the artist.
func heroFromJSON(raw json.RawMessage) HeroSelection {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ClearHero()
	}

	var id string
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return SelectHero(string(trimmed))
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return ClearHero()
	}
	return SelectHero(id)
}
