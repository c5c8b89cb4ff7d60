package server

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type registerForm struct {
	GivenName       string `form:"given_name" json:"givenName"`
	FamilyName      string `form:"family_name" json:"familyName"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirmPassword"`
}

type confirmForm struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// handlePostRegister creates the Cognito account. The local user row appears
// on first login and holds no role until an administrator assigns one.
func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload = new(registerForm)
	if err := s.decodeBody(r, payload); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	payload.GivenName = strings.TrimSpace(payload.GivenName)
	payload.FamilyName = strings.TrimSpace(payload.FamilyName)
	payload.Email = strings.TrimSpace(payload.Email)

	if fields := validateRegisterInput(payload); len(fields) > 0 {
		s.logger.WithField("field_errors", fields).Info("validation errors during registration")
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errValidation.Error(), Fields: fields})
		return
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(payload.Email),
		Password: aws.String(payload.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(payload.Email)},
			{Name: aws.String("given_name"), Value: aws.String(payload.GivenName)},
			{Name: aws.String("family_name"), Value: aws.String(payload.FamilyName)},
		},
	}

	if _, err := s.cognitoClient.SignUp(ctx, input); err != nil {
		status, msg, fields := s.mapCognitoSignUpError(err)
		s.writeJSON(w, status, errorResponse{Error: msg, Fields: fields})
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]string{"email": payload.Email})
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	var payload = new(confirmForm)
	if err := s.decodeBody(r, payload); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	payload.Code = strings.TrimSpace(payload.Code)
	if payload.Email == "" || payload.Code == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("email and code are required"))
		return
	}

	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(payload.Email),
		ConfirmationCode: aws.String(payload.Code),
	}

	if _, err := s.cognitoClient.ConfirmSignUp(r.Context(), input); err != nil {
		s.logger.WithError(err).Error("failed to confirm user signup")

		var codeMismatch *ctypes.CodeMismatchException
		if errors.As(err, &codeMismatch) {
			s.writeError(w, http.StatusBadRequest, errors.New("invalid confirmation code"))
			return
		}
		s.writeError(w, http.StatusBadGateway, errors.New("unable to confirm account"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(in *registerForm) map[string]string {
	errs := map[string]string{}

	if in.GivenName == "" {
		errs["givenName"] = "required"
	}

	if in.FamilyName == "" {
		errs["familyName"] = "required"
	}

	if in.Email == "" {
		errs["email"] = "required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs["email"] = "email"
	}

	if in.Password != in.ConfirmPassword {
		errs["confirmPassword"] = "eqfield"
	}

	strong := len(in.Password) >= 12 &&
		hasUpperReg.MatchString(in.Password) &&
		hasLowerReg.MatchString(in.Password) &&
		hasDigitReg.MatchString(in.Password) &&
		hasSymbolReg.MatchString(in.Password)
	if !strong {
		errs["password"] = "weak"
	}

	return errs
}

func (s *Service) mapCognitoSignUpError(err error) (int, string, map[string]string) {
	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return http.StatusUnprocessableEntity, errValidation.Error(), map[string]string{"password": "weak"}
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return http.StatusConflict, "an account with this email already exists", nil
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return http.StatusBadRequest, "some details are invalid", nil
	}

	s.logger.WithError(err).Error("unhandled cognito signup error")

	return http.StatusBadGateway, "unable to create account right now", nil
}
