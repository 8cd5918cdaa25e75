package db

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-pg/pg"
	"golang.org/x/crypto/bcrypt"
)

// User is a member of the loyalty platform. Points is the single running
// balance; it only moves through the ledger in point_transaction.go.
type User struct {
	Timestamps

	ID                  int64      `json:"id"`
	FullName            string     `json:"full_name"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	Password            string     `json:"-"`
	Points              int64      `json:"points" sql:"type:,notnull"`
	ReferralCode        string     `json:"referral_code"`
	ReferredBy          int64      `json:"referred_by"`
	Role                string     `json:"role"`
	LastAuthenticatedAt *time.Time `json:"last_authenticated_at"`
}

// UserCredentials contains the fields that allows users to log into their accounts
type UserCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UserByID selects a user by ID
func (c *Client) UserByID(ID int64) (*User, error) {
	user := new(User)
	err := c.Model(user).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByEmailOrUsername selects a user either by email or username
func (c *Client) UserByEmailOrUsername(identifier string) (*User, error) {
	if strings.Contains(identifier, "@") {
		return c.UserByEmail(identifier)
	}

	return c.UserByUsername(identifier)
}

// UserByEmail returns the user using email
func (c *Client) UserByEmail(email string) (*User, error) {
	var user User
	err := c.Model(&user).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Where("deleted_at IS NULL").
		First()

	if err == pg.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserByUsername returns the user using username
func (c *Client) UserByUsername(username string) (*User, error) {
	var user User
	err := c.Model(&user).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Where("deleted_at IS NULL").
		First()

	if err == pg.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserByReferralCode returns the user owning a referral code
func (c *Client) UserByReferralCode(code string) (*User, error) {
	if code == "" {
		return nil, nil
	}
	var user User
	err := c.Model(&user).
		Where("referral_code = ?", code).
		Where("deleted_at IS NULL").
		First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAuthenticatedUser authenticates the user by the credentials and
// returns the user
func (c *Client) GetAuthenticatedUser(identifier, password string) (*User, error) {
	user, err := c.UserByEmailOrUsername(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("no such user found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, errors.New("invalid password")
	}

	now := time.Now()
	_, err = c.Model(user).
		Where("id = ?", user.ID).
		Set("last_authenticated_at = ?", now).
		Update()
	if err != nil {
		return nil, err
	}
	user.LastAuthenticatedAt = &now

	return user, nil
}

// SignupUser registers a new user, hooking them to their referrer when a
// referral code is supplied. The referrer's reward is settled through the
// ledger under a key derived from the new user so re-running a half-failed
// signup can never pay twice.
func (c *Client) SignupUser(user *User, referralCode string, referralReward int64) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := generateReferralCode()
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	user.ReferralCode = code
	if user.Role == "" {
		user.Role = "member"
	}

	referrer, err := c.UserByReferralCode(referralCode)
	if err != nil {
		return err
	}
	if referrer != nil {
		user.ReferredBy = referrer.ID
	}

	return c.RunInTransaction(func(tx *pg.Tx) error {
		err := tx.Insert(user)
		if err != nil {
			return err
		}

		if referrer == nil || referralReward <= 0 {
			return nil
		}
		_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
			UserID:         referrer.ID,
			Amount:         referralReward,
			Reason:         ReasonReferral,
			IdempotencyKey: ReferralKey(user.ID),
			Notes:          "referred " + user.Username,
		})
		return err
	})
}

// GrantPoints credits (or debits) a user by an admin decision
func (c *Client) GrantPoints(userID int64, adminID int64, amount int64, key, notes string) (*LedgerResult, error) {
	return c.ApplyLedgerEntry(LedgerEntry{
		UserID:         userID,
		AdminID:        &adminID,
		Amount:         amount,
		Reason:         ReasonAdminGrant,
		IdempotencyKey: key,
		Notes:          notes,
	})
}

func generateReferralCode() (string, error) {
	random := make([]byte, 8)
	_, err := rand.Read(random)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(random), nil
}
