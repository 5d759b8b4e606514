package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/lms/internal/app/models"
)

// Validation rule patterns
var (
	// Usernames: letters, digits, dot, underscore, dash
	UsernamePattern = `^[A-Za-z0-9._\-]{3,50}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
}

// Custom tag names usable in `binding:"..."` struct tags
const (
	TagUsername       = "username"
	TagRole           = "lmsrole"
	TagApprovalStatus = "approvalstatus"
)

// Register installs the custom rules on a validator instance.
// Registering twice on the same instance is harmless.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagUsername: func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Username.MatchString(fl.Field().String())
		},
		TagRole: func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		},
		TagApprovalStatus: func(fl validator.FieldLevel) bool {
			_, err := models.ParseApprovalStatus(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
