package v1

import (
	"encoding/json"
	"net/http"

	"github.com/jimui/biblioteca/http/request"
	"github.com/jimui/biblioteca/http/response"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/validator"
	"go.uber.org/zap"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, categories)
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	if request.GetUserRole(r) != model.RoleAdmin {
		response.Forbidden(w, r)
		return
	}
	save := &model.CategorySaveRequest{}
	if err := json.NewDecoder(r.Body).Decode(save); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateCategorySaveRequest(save); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	category, err := h.store.SaveCategory(save.Name)
	if err != nil {
		log.Error("Failed to save category", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.Created(w, r, category)
}

// deleteCategory removes a category. Books keep their category string,
// so deleting a category never touches the catalog.
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if request.GetUserRole(r) != model.RoleAdmin {
		response.Forbidden(w, r)
		return
	}
	id := request.RouteStringParam(r, "id")
	if err := h.store.DeleteCategory(id); err != nil {
		log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
