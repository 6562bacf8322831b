package session

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// LoginPayload is the login form body.
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegistrationPayload is the signup form body.
type RegistrationPayload struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// SubscribePayload is the subscribe form body. Phone is validated as a
// real dialable number for the configured region.
type SubscribePayload struct {
	InfluencerID int64   `json:"influencer_id" form:"influencer_id"`
	Phone        string  `json:"phone" form:"phone"`
	Amount       float64 `json:"amount" form:"amount"`
	Frequency    string  `json:"frequency" form:"frequency"`
}

func (r SubscribePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InfluencerID, validation.Required),
		validation.Field(
			&r.Phone,
			validation.Required,
			validation.By(ValidatePhoneNumber("KE")),
		),
		validation.Field(&r.Amount, validation.Required, validation.Min(1.0)),
		validation.Field(
			&r.Frequency,
			validation.Required,
			validation.In("daily", "weekly", "monthly"),
		),
	)
}

// ProfileUpdatePayload is the profile edit form body. Every field is
// optional but at least one must change.
type ProfileUpdatePayload struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone" form:"phone"`
	Username  string `json:"username" form:"username"`
	AvatarURL string `json:"avatar_url" form:"avatar_url"`
}

func (r ProfileUpdatePayload) Validate() error {
	if r == (ProfileUpdatePayload{}) {
		return errors.New("nothing to update")
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Length(1, 200)),
		validation.Field(&r.Username, validation.Length(3, 60)),
		validation.Field(&r.AvatarURL, is.URL),
		validation.Field(
			&r.Phone,
			validation.By(ValidatePhoneNumber("KE")),
		),
	)
}

// ToUpdate converts the payload to the client body, dropping blank
// fields so the backend only touches what the form submitted.
func (r ProfileUpdatePayload) ToUpdate() ProfileUpdate {
	out := ProfileUpdate{}
	if r.FirstName != "" {
		out.FirstName = &r.FirstName
	}
	if r.LastName != "" {
		out.LastName = &r.LastName
	}
	if r.Phone != "" {
		out.Phone = &r.Phone
	}
	if r.Username != "" {
		out.Username = &r.Username
	}
	if r.AvatarURL != "" {
		out.AvatarURL = &r.AvatarURL
	}
	return out
}

// ChangePasswordPayload is the password change form body.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePhoneNumber checks the value parses as a dialable number for
// the region. A blank value passes, like the built-in rules; pair it
// with Required when the field is mandatory.
func ValidatePhoneNumber(region string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		num, err := phonenumbers.Parse(s, region)
		if err != nil {
			return errors.New("must be a valid phone number")
		}
		if !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map for rendering next to form inputs.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["_"] = err.Error()
	return out
}
