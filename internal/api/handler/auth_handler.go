package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"streamvault/internal/api/middleware"
	"streamvault/internal/app/service"
	"streamvault/internal/common"

	"github.com/go-chi/chi/v5"
)

const maxUploadMemory = 10 << 20 // 10 MiB buffered in memory, rest spills to disk

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh-token", h.refreshToken)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Post("/logout", h.logout)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload: "+err.Error())
		return
	}

	req := service.RegisterRequest{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	if avatar, closeAvatar, ok := formFile(r, "avatar"); ok {
		defer closeAvatar()
		req.Avatar = avatar
	}
	if cover, closeCover, ok := formFile(r, "coverImage"); ok {
		defer closeCover()
		req.CoverImage = cover
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	setAuthCookies(w, resp.AccessToken, resp.RefreshToken)
	common.RespondWithData(w, http.StatusOK, resp, "User logged in successfully")
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	if err := h.sessionService.Logout(r.Context(), userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	clearAuthCookies(w)
	common.RespondWithData(w, http.StatusOK, struct{}{}, "User logged out")
}

func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) {
	presented := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			presented = body.RefreshToken
		}
	}

	user, pair, err := h.sessionService.Refresh(r.Context(), presented)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	setAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	data := service.LoginResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	common.RespondWithData(w, http.StatusOK, data, "Access token refreshed")
}

func formFile(r *http.Request, field string) (*service.UploadFile, func(), bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, false
	}
	upload := &service.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return upload, func() { closeQuietly(file) }, true
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}

// Both tokens travel as HttpOnly+Secure cookies; their lifetime is the
// embedded JWT expiry, not a cookie Max-Age.
func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie("accessToken", accessToken, 0))
	http.SetCookie(w, authCookie("refreshToken", refreshToken, 0))
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie("accessToken", "", -1))
	http.SetCookie(w, authCookie("refreshToken", "", -1))
}

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
