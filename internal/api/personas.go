package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gallery/internal/handler"
	"gallery/internal/model"
)

// personaBody carries exactly one of the two variants.
type personaBody struct {
	Usuario       *model.Persona `json:"usuario"`
	Administrador *model.Persona `json:"administrador"`
}

func (body personaBody) persona() (model.Persona, error) {
	switch {
	case body.Usuario != nil && body.Administrador == nil:
		persona := *body.Usuario
		persona.Tipo = model.RoleUsuario
		return persona, nil
	case body.Administrador != nil && body.Usuario == nil:
		persona := *body.Administrador
		persona.Tipo = model.RoleAdministrador
		return persona, nil
	}
	return model.Persona{}, fmt.Errorf(`Debe enviar solo usuario o administrador: %w`, model.ErrInvalidInput)
}

type ids struct {
	Ids []int `json:"ids"`
}

func (api Api) personaRoutes(router chi.Router) {
	router.Post(`/`, api.createPersona)
	router.Get(`/`, api.listPersonas)
	router.Get(`/filter`, api.filterPersonas)
	router.Post(`/delete-multiple`, api.deletePersonas)
	router.Get(`/{id}`, api.getPersona)
	router.Put(`/{id}`, api.updatePersona)
	router.Delete(`/{id}`, api.deletePersona)
}

func public(list []model.Persona) []model.Persona {
	out := make([]model.Persona, len(list))
	for i, persona := range list {
		out[i] = persona.Public()
	}
	return out
}

func (api Api) createPersona(w http.ResponseWriter, r *http.Request) {
	body := personaBody{}
	if err := decodeJson(w, r, &body); err != nil {
		api.fail(w, r, err)
		return
	}
	persona, err := body.persona()
	if err != nil {
		api.fail(w, r, err)
		return
	}
	created, err := api.personas.Create(persona)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`personas.create id=%d tipo=%s`, created.Id, created.Tipo)
	handler.Json(w, http.StatusCreated, created.Public())
}

func (api Api) listPersonas(w http.ResponseWriter, r *http.Request) {
	handler.Json(w, http.StatusOK, public(api.personas.List()))
}

func (api Api) filterPersonas(w http.ResponseWriter, r *http.Request) {
	role, err := model.RoleFromString(r.URL.Query().Get(`tipo`))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, public(api.personas.Filter(role)))
}

func (api Api) getPersona(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	persona, err := api.personas.Get(id)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, persona.Public())
}

func (api Api) updatePersona(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	body := personaBody{}
	if err := decodeJson(w, r, &body); err != nil {
		api.fail(w, r, err)
		return
	}
	persona, err := body.persona()
	if err != nil {
		api.fail(w, r, err)
		return
	}
	updated, err := api.personas.Update(id, persona)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`personas.update id=%d tipo=%s`, updated.Id, updated.Tipo)
	handler.Json(w, http.StatusOK, updated.Public())
}

func (api Api) deletePersona(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if err := api.personas.Delete(id); err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`personas.delete id=%d`, id)
	handler.Json(w, http.StatusOK, map[string]string{`message`: `Usuario eliminado correctamente`})
}

func (api Api) deletePersonas(w http.ResponseWriter, r *http.Request) {
	body := ids{}
	if err := decodeJson(w, r, &body); err != nil {
		api.fail(w, r, err)
		return
	}
	result := api.personas.DeleteMany(body.Ids)
	api.logger.Audit(`personas.delete-multiple removed=%v missing=%v`, result.Removed, result.Missing)
	handler.Json(w, http.StatusOK, result)
}
