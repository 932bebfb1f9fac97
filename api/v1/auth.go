package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jimui/biblioteca/api/auth"
	"github.com/jimui/biblioteca/http/request"
	"github.com/jimui/biblioteca/http/response"
	"github.com/jimui/biblioteca/log"
	"github.com/jimui/biblioteca/model"
	"github.com/jimui/biblioteca/validator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	register := &model.UserRegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(register); err != nil {
		log.Error("Failed to decode register request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateRegisterRequest(h.store, register); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.Register(register.Name, register.Email, register.Password, model.RoleUser)
	if err != nil {
		log.Error("Failed to register user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	if err := h.grantSession(w, user); err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Created(w, r, user)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	signin := &model.UserSigninRequest{}
	if err := json.NewDecoder(r.Body).Decode(signin); err != nil {
		log.Error("Failed to decode signin request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateSigninRequest(signin); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.Login(signin.Email, signin.Password)
	if err != nil {
		log.Error("Failed to sign in user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		// Same answer for unknown email and wrong password
		response.Unauthorized(w, r)
		return
	}

	if err := h.grantSession(w, user); err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, user)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	// Expire the cookie immediately
	cookie := h.buildAccessTokenCookie("", time.Time{})
	w.Header().Set("Set-Cookie", cookie)
	response.NoContent(w, r)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, user)
}

func (h *Handler) grantSession(w http.ResponseWriter, user *model.User) error {
	expireAt := time.Now().Add(auth.AccessTokenDuration)
	accessToken, err := auth.GenerateAccessToken(user.Name, user.ID, expireAt, []byte(h.secret))
	if err != nil {
		return errors.Wrap(err, "failed to generate access token")
	}
	cookie := h.buildAccessTokenCookie(accessToken, expireAt)
	w.Header().Set("Set-Cookie", cookie)
	return nil
}

func (h *Handler) buildAccessTokenCookie(accessToken string, expireAt time.Time) string {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"Path=/",
		"HttpOnly",
	}
	if expireAt.IsZero() {
		attrs = append(attrs, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	} else {
		attrs = append(attrs, "Expires="+expireAt.UTC().Format(http.TimeFormat))
	}
	attrs = append(attrs, "SameSite=Strict")
	return strings.Join(attrs, "; ")
}
