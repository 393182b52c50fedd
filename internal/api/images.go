package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gallery/internal/handler"
	"gallery/internal/model"
)

func (api Api) imageRoutes(router chi.Router) {
	router.Get(`/`, api.listImages)
	router.Get(`/list/*`, api.listFolder)
	router.Get(`/serve/*`, api.serveImage)
	router.Post(`/`, api.uploadImage)
	router.Put(`/rename`, api.renameImage)
	router.Delete(`/`, api.deleteImage)
	router.Post(`/delete-multiple`, api.deleteImages)
}

func (api Api) listImages(w http.ResponseWriter, r *http.Request) {
	records, err := api.gallery.List(r.Context(), ``)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, map[string]any{`images`: records})
}

func (api Api) listFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := wildcard(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	folder = strings.Trim(folder, `/`)
	records, err := api.gallery.List(r.Context(), folder)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			handler.Detail(w, http.StatusNotFound, fmt.Sprintf(`Carpeta '%s' no encontrada`, folder))
			return
		}
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, map[string]any{`folder`: folder, `images`: records})
}

func (api Api) serveImage(w http.ResponseWriter, r *http.Request) {
	rel, err := wildcard(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	file, err := api.gallery.Open(r.Context(), rel)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	defer func() {
		if err := file.Data.Close(); err != nil {
			api.logger.Warn(`serve close error: %s`, err)
		}
	}()
	w.Header().Set(`content-type`, file.MimeType)
	http.ServeContent(w, r, file.Name, file.Modified, file.Data)
}

func (api Api) uploadImage(w http.ResponseWriter, r *http.Request) {
	if api.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, api.maxUpload)
	}
	file, header, err := r.FormFile(`file`)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.Detail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(`upload exceeds %d bytes`, tooLarge.Limit))
			return
		}
		handler.Detail(w, http.StatusBadRequest, `file is required`)
		return
	}
	defer file.Close()
	record, err := api.gallery.Upload(r.Context(), r.FormValue(`folder`), header.Filename, file)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusCreated, map[string]string{
		`message`: `Imagen subida correctamente`,
		`url`:     record.Url,
	})
}

func (api Api) renameImage(w http.ResponseWriter, r *http.Request) {
	oldPath := r.FormValue(`old_path`)
	newName := r.FormValue(`new_name`)
	if oldPath == `` || newName == `` {
		handler.Detail(w, http.StatusBadRequest, `old_path and new_name are required`)
		return
	}
	record, err := api.gallery.Rename(r.Context(), oldPath, newName)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, map[string]string{
		`message`: `Imagen renombrada correctamente`,
		`url`:     record.Url,
	})
}

func (api Api) deleteImage(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get(`path`)
	if rel == `` {
		handler.Detail(w, http.StatusBadRequest, `path is required`)
		return
	}
	if err := api.gallery.Delete(r.Context(), rel); err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, map[string]string{`message`: `Imagen eliminada correctamente`})
}

func (api Api) deleteImages(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Paths []string `json:"paths"`
	}{}
	if err := decodeJson(w, r, &body); err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, api.gallery.BulkDelete(r.Context(), body.Paths))
}
