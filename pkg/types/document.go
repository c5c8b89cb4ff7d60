package types

import (
	"slices"
	"strings"
	"time"
)

// Document is one attached file (or placeholder) belonging to a parent record.
// Every document table shares this shape; the parent column is aliased to
// parent_id when selected.
type Document struct {
	ID          string     `db:"id" json:"id"`
	ParentID    string     `db:"parent_id" json:"parentId"`
	Type        string     `db:"document_type" json:"type"`
	Description *string    `db:"description" json:"description,omitempty"`
	FileName    *string    `db:"file_name" json:"fileName,omitempty"`
	FileURL     *string    `db:"file_url" json:"fileUrl,omitempty"`
	UploadedAt  *time.Time `db:"uploaded_at" json:"uploadedAt,omitempty"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	ValueCents  *int64     `db:"value_cents" json:"valueCents,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// Document type constants
const (
	DocTypeOther    = "other"
	DocTypeContract = "contract"

	// Projects
	DocTypePGR       = "pgr"
	DocTypePCMSO     = "pcmso"
	DocTypeART       = "art"
	DocTypePermit    = "alvara"
	DocTypeInsurance = "seguro"

	// Employees
	DocTypeASO  = "aso"
	DocTypeNR10 = "nr10"
	DocTypeNR18 = "nr18"
	DocTypeNR35 = "nr35"
	DocTypeCNH  = "cnh"
	DocTypeEPI  = "epi"
	DocTypeCTPS = "ctps"

	// Vehicles
	DocTypeCRLV       = "crlv"
	DocTypeIPVA       = "ipva"
	DocTypeTachograph = "tacografo"

	// Accommodations
	DocTypeLease      = "contrato_locacao"
	DocTypeInspection = "vistoria"
)

// DocumentKind describes where one family of documents lives. Fixed types hold
// at most one current document per parent; accumulating types are lists.
type DocumentKind struct {
	Name            string
	Route           string
	Table           string
	ParentColumn    string
	ParentTable     string
	HistoryTable    string
	Bucket          string
	Types           []string
	Accumulating    []string
	ReadCapability  string
	WriteCapability string
}

var (
	ProjectDocuments = DocumentKind{
		Name:            "project",
		Route:           "projects",
		Table:           "project_documents",
		ParentColumn:    "project_id",
		ParentTable:     "projects",
		HistoryTable:    "project_history",
		Bucket:          "obras-documentos",
		Types:           []string{DocTypePGR, DocTypePCMSO, DocTypeART, DocTypePermit, DocTypeInsurance, DocTypeContract, DocTypeOther},
		Accumulating:    []string{DocTypeContract, DocTypeOther},
		ReadCapability:  "projects.read",
		WriteCapability: "projects.write",
	}

	EmployeeDocuments = DocumentKind{
		Name:            "employee",
		Route:           "employees",
		Table:           "employee_documents",
		ParentColumn:    "employee_id",
		ParentTable:     "employees",
		HistoryTable:    "employee_history",
		Bucket:          "funcionarios-documentos",
		Types:           []string{DocTypeASO, DocTypeNR10, DocTypeNR18, DocTypeNR35, DocTypeCNH, DocTypeEPI, DocTypeCTPS, DocTypeOther},
		Accumulating:    []string{DocTypeOther},
		ReadCapability:  "employees.read",
		WriteCapability: "employees.write",
	}

	VehicleDocuments = DocumentKind{
		Name:            "vehicle",
		Route:           "vehicles",
		Table:           "vehicle_documents",
		ParentColumn:    "vehicle_id",
		ParentTable:     "vehicles",
		HistoryTable:    "vehicle_history",
		Bucket:          "veiculos-documentos",
		Types:           []string{DocTypeCRLV, DocTypeIPVA, DocTypeInsurance, DocTypeTachograph, DocTypeOther},
		Accumulating:    []string{DocTypeOther},
		ReadCapability:  "vehicles.read",
		WriteCapability: "vehicles.write",
	}

	AccommodationDocuments = DocumentKind{
		Name:            "accommodation",
		Route:           "accommodations",
		Table:           "accommodation_documents",
		ParentColumn:    "accommodation_id",
		ParentTable:     "accommodations",
		HistoryTable:    "accommodation_history",
		Bucket:          "alojamentos-documentos",
		Types:           []string{DocTypeLease, DocTypePermit, DocTypeInspection, DocTypeOther},
		Accumulating:    []string{DocTypeOther},
		ReadCapability:  "accommodations.read",
		WriteCapability: "accommodations.write",
	}
)

// DocumentKinds lists every kind in display order.
var DocumentKinds = []DocumentKind{ProjectDocuments, EmployeeDocuments, VehicleDocuments, AccommodationDocuments}

// NormalizeType lower-cases and trims t and reports whether the result is one
// of the kind's allowed types. Unknown types come back as DocTypeOther.
func (k DocumentKind) NormalizeType(t string) (string, bool) {
	t = strings.ToLower(strings.TrimSpace(t))
	if slices.Contains(k.Types, t) {
		return t, true
	}
	return DocTypeOther, false
}

func (k DocumentKind) IsAccumulating(t string) bool {
	return slices.Contains(k.Accumulating, t)
}

func (k DocumentKind) AcceptsContracts() bool {
	return slices.Contains(k.Types, DocTypeContract)
}

// Optional separates "leave unchanged" (zero value) from an explicit value or
// an explicit clear (Set with a nil Value).
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// DocumentPatch is a partial update; only set fields are written.
type DocumentPatch struct {
	Description Optional[string]
	ExpiresAt   Optional[time.Time]
	FileName    *string
	FileURL     *string
	UploadedAt  *time.Time
}

func (p DocumentPatch) IsEmpty() bool {
	return !p.Description.Set && !p.ExpiresAt.Set && p.FileName == nil && p.FileURL == nil && p.UploadedAt == nil
}

// DocumentView pairs a document with its computed alert status.
type DocumentView struct {
	*Document
	Status       AlertStatus `json:"status"`
	ValueDisplay string      `json:"valueDisplay,omitempty"`
}

// DocumentSlots groups a parent's documents: one current document per fixed
// type and lists for accumulating types.
type DocumentSlots struct {
	Fixed  map[string]DocumentView   `json:"fixed"`
	Listed map[string][]DocumentView `json:"listed"`
}

type ExpiringDocument struct {
	Kind string `json:"kind"`
	DocumentView
}
