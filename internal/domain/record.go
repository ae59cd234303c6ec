package domain

import "time"

// Demographics holds the patient-identifying fields extracted from a note.
// Each populated string field is expected to be directly traceable to the
// source text per the no-extrapolation guarantee.
type Demographics struct {
	Name               string     `json:"name,omitempty"`
	MRN                string     `json:"mrn,omitempty"`
	DOB                *time.Time `json:"dob,omitempty"`
	Age                *int       `json:"age,omitempty"`
	Sex                string     `json:"sex,omitempty"`
	AttendingPhysician string     `json:"attendingPhysician,omitempty"`
}

// Dates holds the admission-to-discharge timeline and the reference-date
// bundle every later extractor that resolves relative dates depends on.
type Dates struct {
	IctusDate     *time.Time     `json:"ictusDate,omitempty"`
	AdmissionDate *time.Time     `json:"admissionDate,omitempty"`
	SurgeryDate   *time.Time     `json:"surgeryDate,omitempty"`
	SurgeryDates  []time.Time    `json:"surgeryDates,omitempty"`
	DischargeDate *time.Time     `json:"dischargeDate,omitempty"`
	Reference     ReferenceDates `json:"reference"`
}

// PathologyRecord holds the primary diagnosis plus any grading-scale
// scores and subtype detail the pathology extractor found.
type PathologyRecord struct {
	Primary   string               `json:"primary,omitempty"`
	Types     []PathologyDetection `json:"types,omitempty"`
	Grades    map[string]int       `json:"grades,omitempty"`
	Location  string               `json:"location,omitempty"`
	Subtype   string               `json:"subtype,omitempty"`
	RiskLevel string               `json:"riskLevel,omitempty"`
	Prognosis string               `json:"prognosis,omitempty"`
}

// FunctionalScores holds outcome-measure scales, explicit or estimated.
type FunctionalScores struct {
	KPS       *int            `json:"kps,omitempty"`
	ECOG      *int            `json:"ecog,omitempty"`
	MRS       *int            `json:"mrs,omitempty"`
	HuntHess  *int            `json:"huntHess,omitempty"`
	Fisher    *int            `json:"fisher,omitempty"`
	Estimated map[string]bool `json:"estimated,omitempty"`
}

// LateRecoveryIndicator names one signal of a prolonged or complicated
// recovery course, with its severity.
type LateRecoveryIndicator struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// LateRecoveryFlag is the output of the late-recovery detector.
type LateRecoveryFlag struct {
	Flagged    bool                     `json:"flagged"`
	LOS        int                      `json:"los"`
	Indicators []LateRecoveryIndicator  `json:"indicators,omitempty"`
}

// ExtractedRecord is the final structured output of the extraction
// pipeline: one populated CanonicalEntity slice per multi-valued category,
// plus the per-category confidence map required by the external contract.
type ExtractedRecord struct {
	Demographics         Demographics        `json:"demographics"`
	Dates                Dates               `json:"dates"`
	Pathology            PathologyRecord     `json:"pathology"`
	Symptoms             []CanonicalEntity   `json:"symptoms,omitempty"`
	Procedures           []CanonicalEntity   `json:"procedures,omitempty"`
	Complications        []CanonicalEntity   `json:"complications,omitempty"`
	Medications          []CanonicalEntity   `json:"medications,omitempty"`
	Imaging              []CanonicalEntity   `json:"imaging,omitempty"`
	Functional           FunctionalScores    `json:"functional"`
	FollowUp             []CanonicalEntity   `json:"followUp,omitempty"`
	DischargeDestination string              `json:"dischargeDestination,omitempty"`
	Anticoagulation      []CanonicalEntity   `json:"anticoagulation,omitempty"`
	OncologyMarkers      []CanonicalEntity   `json:"oncologyMarkers,omitempty"`
	LateRecovery         LateRecoveryFlag    `json:"lateRecovery"`

	Confidence map[string]float64 `json:"confidence,omitempty"`
	Metadata   RecordMetadata     `json:"metadata"`
}

// RecordMetadata describes how an ExtractedRecord was produced.
type RecordMetadata struct {
	Method        string              `json:"method"`
	NoteCount     int                 `json:"noteCount"`
	TotalLength   int                 `json:"totalLength"`
	SourceQuality SourceQualityReport `json:"sourceQuality"`
}

// ExtractorOutput holds a single scalar extractor confidence. The
// per-category extractors in C6 do not return it: each returns its typed
// result and a float64 confidence as two separate values.
type ExtractorOutput struct {
	Confidence float64 `json:"confidence"`
}
