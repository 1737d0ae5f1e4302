package settings

import (
	"encoding/binary"
	"fmt"
	"io"
	"net/netip"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasttemplate"
)

var allowAccessValues = map[string]struct{}{
	"ping": {}, "https": {}, "ssh": {}, "http": {}, "snmp": {},
	"fgfm": {}, "radius-acct": {}, "probe-response": {}, "fabric": {}, "ftm": {},
}

type ValidationError struct {
	FieldPath string
	Message   string
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("settings validation failed with %d error(s):", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("allowaccess", validateAllowAccess); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("filename_pattern", validateFilenamePattern); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("netmask", validateNetmask); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is "Settings.interface.lan_interface"; drop the root.
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		out = append(out, ValidationError{FieldPath: path, Message: validationMessage(fe)})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "required_with":
		return fmt.Sprintf("field is required when %s is set", e.Param())
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "ipv4":
		return "must be a valid IPv4 address"
	case "netmask":
		return "must be a dotted IPv4 netmask, e.g. 255.255.255.248"
	case "fqdn":
		return "must be a fully qualified domain name"
	case "alphanum":
		return "must contain only letters and digits"
	case "allowaccess":
		return "must be a space-separated list of FortiOS access protocols"
	case "filename_pattern":
		return "must be a file name; placeholders are {{network}} and {{network_id}}"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

func validateAllowAccess(fl validator.FieldLevel) bool {
	fields := strings.Fields(fl.Field().String())
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, ok := allowAccessValues[f]; !ok {
			return false
		}
	}
	return true
}

// validateNetmask accepts an empty value; pair it with required_with.
func validateNetmask(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is4() {
		return false
	}
	inverted := ^binary.BigEndian.Uint32(addr.AsSlice())
	return inverted&(inverted+1) == 0
}

func validateFilenamePattern(fl validator.FieldLevel) bool {
	pattern := fl.Field().String()
	if strings.ContainsAny(pattern, `/\`) {
		return false
	}

	t, err := fasttemplate.NewTemplate(pattern, "{{", "}}")
	if err != nil {
		return false
	}
	valid := true
	t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if _, ok := filenameTags[strings.TrimSpace(tag)]; !ok {
			valid = false
		}
		return 0, nil
	})
	return valid
}
