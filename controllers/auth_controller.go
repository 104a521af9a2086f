package controllers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/jvtipil/unfolde/config"
	"github.com/jvtipil/unfolde/middleware"
	"github.com/jvtipil/unfolde/models"
	"github.com/jvtipil/unfolde/utils"
)

const resetTokenTTL = time.Hour

// AuthController handles signup, login, session management and password
// recovery for tenant admins.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup creates a tenant and its first admin user in one transaction.
func (a *AuthController) Signup(ctx *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Slug     string `json:"slug" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if !utils.AllowAttempt(utils.AttemptSignup, ctx.ClientIP()) {
		utils.Error(ctx, http.StatusTooManyRequests, 42902, "too many signup attempts")
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	slug := utils.Slugify(req.Slug)
	if !utils.ValidSlug(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40010, "slug is invalid or reserved")
		return
	}
	if len(req.Password) < 8 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "password must be at least 8 characters")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to process password")
		return
	}

	tenant := models.Tenant{
		Slug:  slug,
		Name:  utils.SanitizeStrict(req.Name),
		Email: email,
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         tenant.Name,
		Role:         models.RoleAdmin,
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		// duplicate slug or email both surface as a conflict
		utils.Error(ctx, http.StatusConflict, 40901, "slug or email already in use")
		return
	}

	a.sendVerificationMail(&user)
	a.issueSession(ctx, &user)
}

// Login authenticates with email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if !utils.AllowAttempt(utils.AttemptLogin, ctx.ClientIP()) {
		utils.Error(ctx, http.StatusTooManyRequests, 42903, "too many login attempts")
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	utils.ClearAttempts(utils.AttemptLogin, ctx.ClientIP())
	a.issueSession(ctx, &user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString("token")
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "no session")
		return
	}

	expiresAt := time.Now().Add(utils.TokenDuration)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	ctx.SetCookie(utils.AuthCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user and their tenant.
func (a *AuthController) Me(ctx *gin.Context) {
	var user models.User
	if err := a.db.Preload("Tenant").First(&user, "id = ?", ctx.GetString(middleware.CtxUserID)).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "tenant": user.Tenant})
}

// ChangePassword replaces the password of the authenticated user.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	type request struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if len(req.NewPassword) < 8 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "password must be at least 8 characters")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", ctx.GetString(middleware.CtxUserID)).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "user not found")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		utils.Error(ctx, http.StatusUnauthorized, 40109, "current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to process password")
		return
	}
	if err := a.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update password")
		return
	}
	utils.Success(ctx, gin.H{"message": "password updated"})
}

// ForgotPassword issues a single-use reset token by email. The response is
// identical whether or not the address exists.
func (a *AuthController) ForgotPassword(ctx *gin.Context) {
	type request struct {
		Email string `json:"email" binding:"required"`
	}

	if !utils.AllowAttempt(utils.AttemptForgotPassword, ctx.ClientIP()) {
		utils.Error(ctx, http.StatusTooManyRequests, 42904, "too many reset attempts")
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err == nil {
		token := randomToken()
		expires := time.Now().Add(resetTokenTTL)
		// only the hash is stored, the raw token travels by mail
		err := a.db.Model(&user).Updates(map[string]interface{}{
			"reset_token":   hashToken(token),
			"reset_expires": expires,
		}).Error
		if err == nil {
			link := fmt.Sprintf("%s/reset-password?token=%s", config.Get().OAuthRedirectBase, token)
			utils.SendMailAsync(user.Email, "Reset your password",
				fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password. The link expires in one hour.</p>`, link))
		}
	}

	utils.Success(ctx, gin.H{"message": "if the address exists, a reset link was sent"})
}

// ResetPassword consumes a reset token and sets a new password.
func (a *AuthController) ResetPassword(ctx *gin.Context) {
	type request struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if len(req.Password) < 8 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "password must be at least 8 characters")
		return
	}

	var user models.User
	err := a.db.Where("reset_token = ? AND reset_expires > ?", hashToken(req.Token), time.Now()).
		First(&user).Error
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid or expired reset token")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to process password")
		return
	}
	err = a.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": hash,
		"reset_token":   "",
		"reset_expires": nil,
	}).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to update password")
		return
	}
	utils.Success(ctx, gin.H{"message": "password updated"})
}

// VerifyEmail marks an address as verified via the mailed token.
func (a *AuthController) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, "missing token")
		return
	}

	var user models.User
	err := a.db.Where("reset_token = ? AND reset_expires > ?", hashToken(token), time.Now()).
		First(&user).Error
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid or expired token")
		return
	}

	err = a.db.Model(&user).Updates(map[string]interface{}{
		"email_verified": true,
		"reset_token":    "",
		"reset_expires":  nil,
	}).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to verify email")
		return
	}
	utils.Success(ctx, gin.H{"message": "email verified"})
}

// ResendVerification sends a fresh verification mail to the current user.
func (a *AuthController) ResendVerification(ctx *gin.Context) {
	if !utils.AllowAttempt(utils.AttemptResendVerify, ctx.ClientIP()) {
		utils.Error(ctx, http.StatusTooManyRequests, 42905, "too many attempts")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", ctx.GetString(middleware.CtxUserID)).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "user not found")
		return
	}
	if user.EmailVerified {
		utils.Success(ctx, gin.H{"message": "already verified"})
		return
	}

	a.sendVerificationMail(&user)
	utils.Success(ctx, gin.H{"message": "verification mail sent"})
}

// OAuthRedirect generates a provider-specific authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	provider := ctx.Param("provider")
	cfg, err := a.oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.Success(ctx, gin.H{"authorization_url": url, "state": state})
}

// OAuthCallback exchanges the authorization code for a user identity and
// issues a session. OAuth never creates accounts implicitly: the provider
// identity or its verified email must match an existing admin.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40005, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid or expired state")
		return
	}

	cfg, err := a.oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "failed to exchange code")
		return
	}

	identity, err := fetchOAuthIdentity(provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to fetch provider identity")
		return
	}

	user, err := a.matchOAuthUser(provider, identity)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "no account linked to this identity")
		return
	}

	a.issueSession(ctx, user)
}

func (a *AuthController) issueSession(ctx *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(user.ID, user.TenantID, user.Role)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	ctx.SetCookie(utils.AuthCookieName, token, int(utils.TokenDuration.Seconds()), "/", "", false, true)
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

func (a *AuthController) sendVerificationMail(user *models.User) {
	token := randomToken()
	expires := time.Now().Add(24 * time.Hour)
	err := a.db.Model(user).Updates(map[string]interface{}{
		"reset_token":   hashToken(token),
		"reset_expires": expires,
	}).Error
	if err != nil {
		return
	}
	link := fmt.Sprintf("%s/verify-email?token=%s", config.Get().OAuthRedirectBase, token)
	utils.SendMailAsync(user.Email, "Verify your email",
		fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email address.</p>`, link))
}

func (a *AuthController) oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	switch strings.ToLower(provider) {
	case "github":
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, fmt.Errorf("github oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  fmt.Sprintf("%s/api/v1/auth/oauth/github/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("%s/api/v1/auth/oauth/google/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

type oauthIdentity struct {
	ID    string
	Email string
}

// matchOAuthUser finds the existing admin for a provider identity; a match
// by email links the provider to the account for future logins.
func (a *AuthController) matchOAuthUser(provider string, identity *oauthIdentity) (*models.User, error) {
	var user models.User
	err := a.db.Where("provider = ? AND provider_id = ?", provider, identity.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	_ = a.db.Model(&user).Updates(map[string]interface{}{
		"provider":    provider,
		"provider_id": identity.ID,
	}).Error
	return &user, nil
}

func fetchOAuthIdentity(provider string, token *oauth2.Token) (*oauthIdentity, error) {
	switch provider {
	case "github":
		return fetchGitHubIdentity(token)
	case "google":
		return fetchGoogleIdentity(token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchGitHubIdentity(token *oauth2.Token) (*oauthIdentity, error) {
	var payload struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := oauthGet("https://api.github.com/user", token.AccessToken, &payload); err != nil {
		return nil, err
	}

	email := payload.Email
	if email == "" {
		// primary address requires the dedicated emails endpoint
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := oauthGet("https://api.github.com/user/emails", token.AccessToken, &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	return &oauthIdentity{ID: fmt.Sprintf("%d", payload.ID), Email: email}, nil
}

func fetchGoogleIdentity(token *oauth2.Token) (*oauthIdentity, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := oauthGet("https://www.googleapis.com/oauth2/v2/userinfo", token.AccessToken, &payload); err != nil {
		return nil, err
	}
	return &oauthIdentity{ID: payload.ID, Email: payload.Email}, nil
}

func oauthGet(url, accessToken string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	client := http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
