package auth

import (
	"errors"
	"fmt"
	"time"

	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	SessionTTL    = 6 * 30 * 24 * time.Hour
	ActivationTTL = time.Hour
	ResetTTL      = 20 * time.Minute
	ShareTTL      = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type activationClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ShareClaims is the payload of a quiz share link.
type ShareClaims struct {
	QuizID         string `json:"quizId"`
	SharedByUserID string `json:"sharedByUserId"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies every token the service hands out. Each purpose has its own key.
type Tokens struct {
	activationKey []byte
	accessKey     []byte
	resetKey      []byte
	shareKey      []byte
	now           func() time.Time
}

func NewTokens(s config.Settings) *Tokens {
	return &Tokens{
		activationKey: []byte(s.ActivationKey),
		accessKey:     []byte(s.AccessKey),
		resetKey:      []byte(s.ResetPasswordKey),
		shareKey:      []byte(s.QuizShareKey),
		now:           time.Now,
	}
}

// WithClock returns a copy of t that stamps tokens using now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

func (t *Tokens) AccessKey() []byte {
	return t.accessKey
}

func (t *Tokens) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (t *Tokens) IssueSession(userID uuid.UUID, role string) (string, *SessionClaims, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", nil, fmt.Errorf("generate token id: %w", err)
	}
	claims := &SessionClaims{UserID: userID.String(), Role: role, RegisteredClaims: t.registered(SessionTTL)}
	claims.ID = jti
	signed, err := sign(claims, t.accessKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (t *Tokens) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parse(token, claims, t.accessKey); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *Tokens) IssueActivation(userID uuid.UUID) (string, error) {
	return sign(&activationClaims{UserID: userID.String(), RegisteredClaims: t.registered(ActivationTTL)}, t.activationKey)
}

// ParseActivation distinguishes ErrTokenExpired from ErrTokenInvalid.
func (t *Tokens) ParseActivation(token string) (uuid.UUID, error) {
	claims := &activationClaims{}
	if err := parse(token, claims, t.activationKey); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

func (t *Tokens) IssueReset(email string) (string, error) {
	return sign(&resetClaims{Email: email, RegisteredClaims: t.registered(ResetTTL)}, t.resetKey)
}

func (t *Tokens) ParseReset(token string) (string, error) {
	claims := &resetClaims{}
	if err := parse(token, claims, t.resetKey); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}

func (t *Tokens) IssueShare(quizID, sharedBy uuid.UUID) (string, error) {
	return sign(&ShareClaims{
		QuizID:           quizID.String(),
		SharedByUserID:   sharedBy.String(),
		RegisteredClaims: t.registered(ShareTTL),
	}, t.shareKey)
}

func (t *Tokens) ParseShare(token string) (uuid.UUID, error) {
	claims := &ShareClaims{}
	if err := parse(token, claims, t.shareKey); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.QuizID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

func sign(claims jwt.Claims, key []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func parse(token string, claims jwt.Claims, key []byte) error {
	if token == "" {
		return ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}
