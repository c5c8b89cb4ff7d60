package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"construtora/internal/auth"
	"construtora/internal/documents"
	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type CognitoClient interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
}

type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UpsertIdentity(ctx context.Context, userID, email, givenName, familyName string) error
}

type ProjectStore interface {
	Project(ctx context.Context, projectID string) (*types.Project, error)
	Projects(ctx context.Context, status types.ProjectStatus) ([]*types.Project, error)
	CreateProject(ctx context.Context, project *types.Project) error
	UpdateProject(ctx context.Context, projectID string, project *types.Project) error
	DeleteProject(ctx context.Context, projectID string) error
}

type EmployeeStore interface {
	Employee(ctx context.Context, employeeID string) (*types.Employee, error)
	Employees(ctx context.Context, projectID string) ([]*types.Employee, error)
	CreateEmployee(ctx context.Context, employee *types.Employee) error
	UpdateEmployee(ctx context.Context, employeeID string, employee *types.Employee) error
	DeleteEmployee(ctx context.Context, employeeID string) error
}

type VehicleStore interface {
	Vehicle(ctx context.Context, vehicleID string) (*types.Vehicle, error)
	Vehicles(ctx context.Context, projectID string) ([]*types.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *types.Vehicle) error
	UpdateVehicle(ctx context.Context, vehicleID string, vehicle *types.Vehicle) error
	DeleteVehicle(ctx context.Context, vehicleID string) error
}

type AccommodationStore interface {
	Accommodation(ctx context.Context, accommodationID string) (*types.Accommodation, error)
	Accommodations(ctx context.Context, projectID string) ([]*types.Accommodation, error)
	CreateAccommodation(ctx context.Context, accommodation *types.Accommodation) error
	UpdateAccommodation(ctx context.Context, accommodationID string, accommodation *types.Accommodation) error
	DeleteAccommodation(ctx context.Context, accommodationID string) error
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	validate *validator.Validate

	users          UserStore
	projects       ProjectStore
	employees      EmployeeStore
	vehicles       VehicleStore
	accommodations AccommodationStore
	documents      *documents.Registry

	cognitoClient CognitoClient
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	// authenticate resolves the caller's identity; tokenIdentity unless
	// replaced in tests.
	authenticate func(r *http.Request) (*identity, error)

	metrics http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoClient,
	users UserStore,
	projects ProjectStore,
	employees EmployeeStore,
	vehicles VehicleStore,
	accommodations AccommodationStore,
	registry *documents.Registry,
	jwkCache *jwk.Cache,
	jwksURL string,
	gatherer prometheus.Gatherer,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}

	s := &Service{
		logger:   logger,
		config:   config,
		validate: utils.NewValidator(),

		users:          users,
		projects:       projects,
		employees:      employees,
		vehicles:       vehicles,
		accommodations: accommodations,
		documents:      registry,

		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		metrics:   promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
	s.authenticate = s.tokenIdentity

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", s.metrics, http.MethodGet)

	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)
	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)

	r.HandleFunc("/validate/cnpj", s.handleValidateCNPJ, http.MethodPost)
	r.HandleFunc("/validate/plate", s.handleValidatePlate, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/me", s.handleGetMe, http.MethodGet)

		r.HandleFunc("/projects", s.allow(s.handleListProjects, types.ProjectDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/projects", s.allow(s.handleCreateProject, types.ProjectDocuments.WriteCapability), http.MethodPost)
		r.HandleFunc("/projects/:id", s.allow(s.handleGetProject, types.ProjectDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/projects/:id", s.allow(s.handleUpdateProject, types.ProjectDocuments.WriteCapability), http.MethodPut)
		r.HandleFunc("/projects/:id", s.allow(s.handleDeleteProject, types.ProjectDocuments.WriteCapability), http.MethodDelete)

		r.HandleFunc("/employees", s.allow(s.handleListEmployees, types.EmployeeDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/employees", s.allow(s.handleCreateEmployee, types.EmployeeDocuments.WriteCapability), http.MethodPost)
		r.HandleFunc("/employees/:id", s.allow(s.handleGetEmployee, types.EmployeeDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/employees/:id", s.allow(s.handleUpdateEmployee, types.EmployeeDocuments.WriteCapability), http.MethodPut)
		r.HandleFunc("/employees/:id", s.allow(s.handleDeleteEmployee, types.EmployeeDocuments.WriteCapability), http.MethodDelete)

		r.HandleFunc("/vehicles", s.allow(s.handleListVehicles, types.VehicleDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/vehicles", s.allow(s.handleCreateVehicle, types.VehicleDocuments.WriteCapability), http.MethodPost)
		r.HandleFunc("/vehicles/:id", s.allow(s.handleGetVehicle, types.VehicleDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/vehicles/:id", s.allow(s.handleUpdateVehicle, types.VehicleDocuments.WriteCapability), http.MethodPut)
		r.HandleFunc("/vehicles/:id", s.allow(s.handleDeleteVehicle, types.VehicleDocuments.WriteCapability), http.MethodDelete)

		r.HandleFunc("/accommodations", s.allow(s.handleListAccommodations, types.AccommodationDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/accommodations", s.allow(s.handleCreateAccommodation, types.AccommodationDocuments.WriteCapability), http.MethodPost)
		r.HandleFunc("/accommodations/:id", s.allow(s.handleGetAccommodation, types.AccommodationDocuments.ReadCapability), http.MethodGet)
		r.HandleFunc("/accommodations/:id", s.allow(s.handleUpdateAccommodation, types.AccommodationDocuments.WriteCapability), http.MethodPut)
		r.HandleFunc("/accommodations/:id", s.allow(s.handleDeleteAccommodation, types.AccommodationDocuments.WriteCapability), http.MethodDelete)

		for _, docs := range s.documents.Services() {
			kind := docs.Kind()
			base := "/" + kind.Route + "/:parentID"

			r.HandleFunc(base+"/documents", s.allow(s.handleGetDocuments(docs), kind.ReadCapability), http.MethodGet)
			r.HandleFunc(base+"/documents", s.allow(s.handlePostDocuments(docs), kind.WriteCapability, auth.CapDocumentsWrite), http.MethodPost)
			r.HandleFunc(base+"/documents/:docID", s.allow(s.handleDeleteDocument(docs), kind.WriteCapability, auth.CapDocumentsDelete), http.MethodDelete)
			r.HandleFunc(base+"/history", s.allow(s.handleGetHistory(docs), kind.ReadCapability), http.MethodGet)

			if kind.AcceptsContracts() {
				r.HandleFunc(base+"/contracts", s.allow(s.handlePostContract(docs), kind.WriteCapability, auth.CapDocumentsWrite), http.MethodPost)
			}
		}

		r.HandleFunc("/alerts", s.allow(s.handleGetAlerts, auth.CapAlertsRead), http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
