package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"

	"work-planner/internal/managers"
	"work-planner/internal/schemas"
	"work-planner/internal/utils"
)

// bcryptCost matches the work factor the original deployment hashed with.
const bcryptCost = 12

const verificationTokenLifetime = 24 * time.Hour

type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	VerifyEmail(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	Validator       *utils.Validator
	VerifyEmailMX   bool
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr, verifyEmailMX bool) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MailManager:     *mailManager,
		Validator:       utils.GetValidator(),
		VerifyEmailMX:   verifyEmailMX,
	}
}

// RegisterUser creates a new user in state Unverified and mails a
// verification token. Registration succeeds even when the mail cannot be
// delivered; a fresh token is issued on the next login attempt.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	registrationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Check if the email is taken, case-insensitively
	if err = checkEmailTaken(c, tx, registrationRequest.Email); err != nil {
		return
	}

	if handler.VerifyEmailMX && !handler.Validator.VerifyEmail(registrationRequest.Email) {
		err = errors.New("email unreachable")
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcryptCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	verificationToken, err := handler.JWTManager.GenerateVerificationToken()
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	createdAt := time.Now()
	tokenExpiry := createdAt.Add(verificationTokenLifetime)

	queryString := "INSERT INTO work_planner.users (user_id, name, email, password, is_verified, " +
		"verification_token, verification_token_expiry, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err = tx.Exec(c, queryString, userId, registrationRequest.Name, registrationRequest.Email,
		hashedPassword, false, verificationToken, tokenExpiry, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Mail delivery failure must not fail the registration.
	if mailErr := handler.MailManager.SendVerificationMail(registrationRequest.Email, verificationToken); mailErr != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Failed to send verification mail", mailErr)
	}

	registrationDto := &schemas.RegistrationDTO{
		Message: "Registration successful! Please check your email to verify your account.",
		UserId:  userId.String(),
	}
	utils.WriteAndLogResponse(c, registrationDto, http.StatusCreated)
}

// LoginUser authenticates a verified user and returns a seven-day session
// token. An unverified user is refused and receives a fresh verification
// token by mail.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	loginRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	var userId uuid.UUID
	var name, email, passwordHash string
	var isVerified bool

	queryString := "SELECT user_id, name, email, password, is_verified FROM work_planner.users WHERE LOWER(email) = LOWER($1)"
	if err = tx.QueryRow(c, queryString, loginRequest.Email).Scan(&userId, &name, &email, &passwordHash, &isVerified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown email and wrong password are indistinguishable to the caller.
			utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if !isVerified {
		handler.refuseUnverifiedLogin(c, tx, userId, email)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	token, err := handler.JWTManager.GenerateSessionToken(userId.String())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	loginDto := &schemas.LoginDTO{
		Message: "Login successful",
		Token:   token,
		User: schemas.UserDTO{
			Id:    userId.String(),
			Name:  name,
			Email: email,
		},
	}
	utils.WriteAndLogResponse(c, loginDto, http.StatusOK)
}

// refuseUnverifiedLogin stores a fresh verification token on the user and
// attempts a resend before answering 401. A failed resend is logged only; the
// refusal response does not depend on mail delivery.
func (handler *UserHandler) refuseUnverifiedLogin(c *gin.Context, tx pgx.Tx, userId uuid.UUID, email string) {
	verificationToken, err := handler.JWTManager.GenerateVerificationToken()
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tokenExpiry := time.Now().Add(verificationTokenLifetime)
	queryString := "UPDATE work_planner.users SET verification_token = $1, verification_token_expiry = $2 WHERE user_id = $3"
	if _, err = tx.Exec(c, queryString, verificationToken, tokenExpiry, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	if mailErr := handler.MailManager.SendVerificationMail(email, verificationToken); mailErr != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Failed to resend verification mail", mailErr)
	}

	utils.WriteAndLogError(c, schemas.UserNotVerified, http.StatusUnauthorized, errors.New("user not verified"))
}

// VerifyEmail redeems a verification token. The token must carry a valid
// signature and expiry AND match the value currently stored on the user
// record, whose own expiry is checked separately.
func (handler *UserHandler) VerifyEmail(c *gin.Context) {
	verifyRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.VerifyEmailRequest)

	if _, tokenErr := handler.JWTManager.ValidateToken(verifyRequest.Token); tokenErr != nil {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusBadRequest, tokenErr)
		return
	}

	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	var userId uuid.UUID
	var tokenExpiry pgtype.Timestamptz

	// The stored value is authoritative: a redeemed token no longer matches any row.
	queryString := "SELECT user_id, verification_token_expiry FROM work_planner.users WHERE verification_token = $1"
	if err = tx.QueryRow(c, queryString, verifyRequest.Token).Scan(&userId, &tokenExpiry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if !tokenExpiry.Valid || time.Now().After(tokenExpiry.Time) {
		err = errors.New("verification token expired")
		utils.WriteAndLogError(c, schemas.TokenExpired, http.StatusGone, err)
		return
	}

	queryString = "UPDATE work_planner.users SET is_verified = TRUE, verification_token = NULL, verification_token_expiry = NULL WHERE user_id = $1"
	if _, err = tx.Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Email verified successfully. You can now log in."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// checkEmailTaken checks if a user with the given email already exists.
func checkEmailTaken(c *gin.Context, tx pgx.Tx, email string) error {
	queryString := "SELECT user_id FROM work_planner.users WHERE LOWER(email) = LOWER($1)"

	var existingId uuid.UUID
	err := tx.QueryRow(c, queryString, email).Scan(&existingId)
	if err == nil {
		err = errors.New("email taken")
		utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusConflict, err)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}

// userIdFromClaims extracts the authenticated user's id from the JWT claims
// placed in the context by the auth middleware.
func userIdFromClaims(c *gin.Context) (uuid.UUID, error) {
	claims, ok := c.Value(utils.ClaimsKey.String()).(jwt.Claims)
	if !ok {
		return uuid.UUID{}, errors.New("missing claims")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.UUID{}, err
	}

	return uuid.Parse(subject)
}
