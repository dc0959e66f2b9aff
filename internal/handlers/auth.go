package handlers

import (
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"smarttrash-backend/internal/middleware"
	"smarttrash-backend/internal/models"
	"smarttrash-backend/pkg/utils"
)

func Login(store UserStore, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Email)

		if jwtSecret == "" {
			log.Println("❌ JWT secret not configured")
			utils.JSON(w, http.StatusInternalServerError, models.LoginResponse{OK: false})
			return
		}

		user, err := store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			log.Printf("❌ User not found: %s", req.Email)
			utils.JSON(w, http.StatusUnauthorized, models.LoginResponse{OK: false})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Email)
			utils.JSON(w, http.StatusUnauthorized, models.LoginResponse{OK: false})
			return
		}

		token, err := middleware.IssueToken(jwtSecret, middleware.UserClaims{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		}, time.Now())
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		userResponse := user.ToUserResponse()
		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)

		utils.JSON(w, http.StatusOK, models.LoginResponse{
			OK:    true,
			Token: token,
			User:  &userResponse,
		})
	}
}
