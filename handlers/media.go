package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/esports-overlay/services"
)

const maxUploadBytes = 10 << 20

// uploadMedia reads the multipart "file" field and attaches it to the entity
// whose id is in the path parameter idParam.
func uploadMedia(w http.ResponseWriter, r *http.Request, rs responder, media services.MediaService, kind services.MediaKind, idParam string) {
	id, err := getIDFromURL(r, idParam)
	if err != nil {
		rs.badRequest(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		rs.badRequest(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		rs.badRequest(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		rs.badRequest(w, r, errors.New("content-type header is required for the file"))
		return
	}

	url, err := media.Upload(r.Context(), kind, id, services.MediaFile{
		Name:        header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		rs.serviceError(w, r, err)
		return
	}
	rs.ok(w, r, http.StatusOK, "url", url)
}
