// Package auth implements the OTP login flow: a one-time code mailed to
// the address, verified within a fixed window, exchanged for a JWT.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/events"
	"storefront-backend/internal/mailer"
	"storefront-backend/internal/model"
)

var (
	// ErrUserNotFound is returned when verification targets an unknown email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidOTP covers both a wrong code and an expired one.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
)

// Service handles /auth/otp and /auth/otp/verify.
type Service struct {
	users    *model.Adapter[domain.User]
	mail     mailer.Mailer
	dispatch *events.Dispatcher
	secret   []byte
	otpTTL   time.Duration
	tokenTTL time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// New creates a Service with the historical defaults: 10 minute OTP
// window, 7 day tokens.
func New(users *model.Adapter[domain.User], mail mailer.Mailer, dispatch *events.Dispatcher, secret string, otpTTL time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	return &Service{
		users:    users,
		mail:     mail,
		dispatch: dispatch,
		secret:   []byte(secret),
		otpTTL:   otpTTL,
		tokenTTL: 7 * 24 * time.Hour,
		logger:   logger,
		now:      time.Now,
	}
}

// RequestOTP provisions the user when absent, stores a fresh code, and
// queues the OTP mail.
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	now := s.now().UTC()

	user, err := s.users.FindOne(ctx, model.ByField("email", email))
	if err != nil {
		return err
	}
	if user == nil {
		password, err := PlaceholderPassword()
		if err != nil {
			return err
		}
		user = &domain.User{
			Email:     email,
			Password:  password,
			FirstName: emailLocalPart(email),
		}
		user.OTP = otp
		user.OTPCreatedAt = &now
		if _, err := s.users.Create(ctx, user); err != nil {
			return err
		}
	} else {
		user.OTP = otp
		user.OTPCreatedAt = &now
		user.IsVerified = false
		if _, err := s.users.Save(ctx, user); err != nil {
			return err
		}
	}

	s.dispatch.Go("otp-mail", func(ctx context.Context) error {
		return s.mail.Send(ctx, mailer.Message{
			To:      email,
			Subject: "Your OTP Code",
			Text:    fmt.Sprintf("Your OTP code is: %s", otp),
		})
	})
	return nil
}

// VerifiedUser is returned to the client on successful verification.
type VerifiedUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// VerifyOTP checks the code and its age, marks the user verified, and
// issues a signed token.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (string, *VerifiedUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || otp == "" {
		return "", nil, domain.NewValidationError("email", "and OTP are required")
	}

	user, err := s.users.FindOne(ctx, model.ByField("email", email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	if user.OTP == "" || user.OTP != otp {
		return "", nil, ErrInvalidOTP
	}
	if user.OTPCreatedAt == nil || s.now().Sub(*user.OTPCreatedAt) > s.otpTTL {
		return "", nil, ErrInvalidOTP
	}

	_, err = s.users.Update(ctx, model.ByField("email", email), model.SetFields(map[string]interface{}{
		"otp":          "",
		"otpCreatedAt": nil,
		"isVerified":   true,
	}), model.UpdateOptions{SkipReturn: true})
	if err != nil {
		return "", nil, err
	}

	token, err := s.signToken(user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, &VerifiedUser{
		ID:             user.Email,
		Email:          user.Email,
		Name:           user.DisplayName(),
		ProfilePicture: user.ProfilePicture,
	}, nil
}

func (s *Service) signToken(email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses a token issued by signToken and returns the subject
// email.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("invalid token")
	}
	return sub, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// PlaceholderPassword hashes random bytes for users provisioned without a
// credential flow (first OTP request, first cart or address write). Such
// users never log in with a password.
func PlaceholderPassword() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(buf[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
