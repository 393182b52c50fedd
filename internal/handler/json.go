package handler

import (
	"encoding/json"
	"net/http"
)

func Json(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set(`content-type`, `application/json`)
	w.WriteHeader(code)
	w.Write(body)
	w.Write([]byte("\n"))
}

func Detail(w http.ResponseWriter, code int, text string) {
	Json(w, code, map[string]string{`detail`: text})
}
