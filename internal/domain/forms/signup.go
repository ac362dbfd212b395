package forms

import (
	"strings"
	"unicode"
)

// SignUpForm is the car owner beta sign-up submission.
// Car is left untyped: browsers send "True"/"False", JSON clients send booleans.
type SignUpForm struct {
	Name    string      `json:"name" form:"name"`
	Email   string      `json:"email" form:"email"`
	Phone   string      `json:"phone" form:"phone"`
	ZipCode string      `json:"zipCode" form:"zipCode"`
	Car     interface{} `json:"car" form:"-"`
}

// SignUpData 校验通过后的数据
type SignUpData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	ZipCode string `json:"zipCode"`
	Car     bool   `json:"car"`
}

// Clean 逐字段校验并规范化，所有字段错误一起返回
func (f SignUpForm) Clean() (SignUpData, error) {
	errs := FieldErrors{}
	var data SignUpData

	if name, msg := cleanName(f.Name); msg != "" {
		errs["name"] = msg
	} else {
		data.Name = name
	}

	if email, msg := cleanEmail(f.Email); msg != "" {
		errs["email"] = msg
	} else {
		data.Email = email
	}

	data.Phone = strings.TrimSpace(f.Phone)

	if zip, msg := cleanZipCode(f.ZipCode); msg != "" {
		errs["zipCode"] = msg
	} else {
		data.ZipCode = zip
	}

	data.Car = cleanCar(f.Car)

	if err := errs.orNil(); err != nil {
		return SignUpData{}, err
	}
	return data, nil
}

func cleanName(raw string) (string, string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", MsgRequired
	}
	return strings.ToLower(name), ""
}

func cleanEmail(raw string) (string, string) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", MsgRequired
	}
	email = strings.ToLower(email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return "", MsgInvalidEmail
	}
	return email, ""
}

func cleanZipCode(raw string) (string, string) {
	zip := strings.TrimSpace(raw)
	if zip == "" {
		return "", MsgRequired
	}
	for _, r := range zip {
		if !unicode.IsDigit(r) {
			return "", MsgZipNotNumeric
		}
	}
	return zip, ""
}

// cleanCar 只有 true 和 "True" 视为有车
func cleanCar(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "True"
	default:
		return false
	}
}
