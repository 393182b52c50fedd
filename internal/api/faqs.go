package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gallery/internal/handler"
	"gallery/internal/model"
)

func (api Api) faqRoutes(router chi.Router) {
	router.Post(`/`, api.createFaq)
	router.Get(`/`, api.listFaqs)
	router.Post(`/delete-multiple`, api.deleteFaqs)
	router.Get(`/{id}`, api.getFaq)
	router.Put(`/{id}`, api.updateFaq)
	router.Delete(`/{id}`, api.deleteFaq)
}

func (api Api) createFaq(w http.ResponseWriter, r *http.Request) {
	faq := model.Faq{}
	if err := decodeJson(w, r, &faq); err != nil {
		api.fail(w, r, err)
		return
	}
	created, err := api.faqs.Create(faq)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`faqs.create id=%d`, created.Id)
	handler.Json(w, http.StatusCreated, created)
}

func (api Api) listFaqs(w http.ResponseWriter, r *http.Request) {
	handler.Json(w, http.StatusOK, api.faqs.List())
}

func (api Api) getFaq(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	faq, err := api.faqs.Get(id)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	handler.Json(w, http.StatusOK, faq)
}

func (api Api) updateFaq(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	faq := model.Faq{}
	if err := decodeJson(w, r, &faq); err != nil {
		api.fail(w, r, err)
		return
	}
	updated, err := api.faqs.Update(id, faq)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`faqs.update id=%d`, updated.Id)
	handler.Json(w, http.StatusOK, updated)
}

func (api Api) deleteFaq(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if err := api.faqs.Delete(id); err != nil {
		api.fail(w, r, err)
		return
	}
	api.logger.Audit(`faqs.delete id=%d`, id)
	handler.Json(w, http.StatusOK, map[string]string{`message`: `Pregunta frecuente eliminada`})
}

func (api Api) deleteFaqs(w http.ResponseWriter, r *http.Request) {
	body := ids{}
	if err := decodeJson(w, r, &body); err != nil {
		api.fail(w, r, err)
		return
	}
	result := api.faqs.DeleteMany(body.Ids)
	api.logger.Audit(`faqs.delete-multiple removed=%v missing=%v`, result.Removed, result.Missing)
	handler.Json(w, http.StatusOK, result)
}
