package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"billbook/auth"
	"billbook/models"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the shared login and starts a session
// @Summary      Log in
// @Description  Check credentials and set the session cookie. Wrong credentials yield success=false, not an error status.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      loginInput  true  "Username and password"
// @Success      200          {object}  Response{data=map[string]bool}
// @Router       /login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var user models.User
	err := DB.QueryRow("SELECT id, username, password FROM users WHERE username = ?", input.Username).
		Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if !auth.CheckPassword(input.Password, user.Password) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	token := sessions.create(user.ID)
	setSessionCookie(w, token, 12*60*60)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout destroys the current session
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=map[string]bool}
// @Router       /logout [post]
func Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessions.destroy(cookie.Value)
	}
	setSessionCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AuthCheck reports whether the request carries a valid session
// @Summary      Check session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response{data=map[string]bool}
// @Router       /auth/check [get]
func AuthCheck(w http.ResponseWriter, r *http.Request) {
	_, ok := currentUser(r)
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}
