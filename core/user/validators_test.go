package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/leonsilipetar/cadenza/core"
)

func validationTags(err error) map[string]string {
	tags := make(map[string]string)
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, vErr := range vErrs {
			tags[vErr.Field()] = vErr.Tag()
		}
	}
	return tags
}

func Test_validatePassword(t *testing.T) {
	newUser := func(pwd string) NewUser {
		return NewUser{
			Name:            "Jecca Blac",
			Username:        "jeccablac",
			Email:           "jecca@test.cadenza",
			Password:        pwd,
			PasswordConfirm: pwd,
		}
	}

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "valid", pwd: "Qty!5669%0"},
		{name: "too short", pwd: "Qty!56", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Qty! 5669%0", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "5669012345", wantTag: pwdNotAllNumTag},
		{name: "no uppercase", pwd: "qty!5669%0", wantTag: pwdComplexityTag},
		{name: "no digit", pwd: "Qty!abcd%e", wantTag: pwdComplexityTag},
		{name: "no special", pwd: "Qty5669A0b", wantTag: pwdComplexityTag},
		{name: "similar to username", pwd: "Jeccablac1!", wantTag: pwdAttrSimTag},
		{name: "similar to email", pwd: "Jecca@test.cadenza1", wantTag: pwdAttrSimTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.Validate.Struct(newUser(tt.pwd))
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("Validate() = %v; want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil; want error")
			}
			if tag := validationTags(err)["password"]; tag != tt.wantTag {
				t.Errorf("password tag = %q; want %q (err %v)", tag, tt.wantTag, err)
			}
		})
	}
}

func Test_usernameOrEmailRequired(t *testing.T) {
	nu := NewUser{
		Name:            "No Handle",
		Password:        "Qty!5669%0",
		PasswordConfirm: "Qty!5669%0",
	}
	err := core.Validate.Struct(nu)
	if err == nil {
		t.Fatal("Validate() = nil; want error")
	}
	tags := validationTags(err)
	if tags["username"] != usernameOrEmailTag || tags["email"] != usernameOrEmailTag {
		t.Errorf("tags = %v; want %q on username and email", tags, usernameOrEmailTag)
	}
}

func Test_allRolesValidation(t *testing.T) {
	nu := NewUser{
		Name:            "Bad Roles",
		Username:        "badroles",
		Password:        "Qty!5669%0",
		PasswordConfirm: "Qty!5669%0",
		Roles:           []string{"superuser:"},
	}
	err := core.Validate.Struct(nu)
	if err == nil {
		t.Fatal("Validate() = nil; want error")
	}
	if tag := validationTags(err)["roles"]; tag != allRolesTag {
		t.Errorf("roles tag = %q; want %q", tag, allRolesTag)
	}
}
