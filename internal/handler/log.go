package handler

import (
	"net/http"

	"gallery/internal/control"
)

func Log(logger control.Logger) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			Json(w, http.StatusOK, map[string]string{`level`: logger.Level().String()})
		case http.MethodPost:
			from := logger.Level()
			if err := logger.SetLevelFromString(r.FormValue(`level`)); err != nil {
				Detail(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Audit(`logging.level %s -> %s`, from.String(), logger.Level().String())
			Json(w, http.StatusOK, map[string]string{`level`: logger.Level().String(), `from`: from.String()})
		default:
			Verboten.ServeHTTP(w, r)
		}
	})
}
