package dto

import (
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// ValidationIssueResponse is one finding of the pre-generation check.
type ValidationIssueResponse struct {
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// ValidateStatementResponse is the response of the validate endpoint.
type ValidateStatementResponse struct {
	UnitID string                    `json:"unitID"`
	Year   int                       `json:"year"`
	Valid  bool                      `json:"valid"`
	Issues []ValidationIssueResponse `json:"issues"`
}

// ToValidateStatementResponse maps validation findings to the transport form.
// Valid is false when any finding is error-grade.
func ToValidateStatementResponse(unitID string, year int, issues []domain.ValidationIssue) ValidateStatementResponse {
	resp := ValidateStatementResponse{
		UnitID: unitID,
		Year:   year,
		Valid:  true,
		Issues: make([]ValidationIssueResponse, 0, len(issues)),
	}
	for _, issue := range issues {
		if issue.Severity == domain.SeverityError {
			resp.Valid = false
		}
		resp.Issues = append(resp.Issues, ValidationIssueResponse{
			Severity: string(issue.Severity),
			Field:    issue.Field,
			Message:  issue.Message,
		})
	}
	return resp
}

// BatchUnitResultResponse is one unit's outcome in a batch generation run.
type BatchUnitResultResponse struct {
	UnitID     string `json:"unitID"`
	UnitNumber string `json:"unitNumber"`
	OwnerName  string `json:"ownerName"`
	Success    bool   `json:"success"`
	SizeBytes  int    `json:"sizeBytes,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchGenerateResponse summarizes a property-wide generation run.
type BatchGenerateResponse struct {
	PropertyID string                    `json:"propertyID"`
	Year       int                       `json:"year"`
	Format     string                    `json:"format"`
	Succeeded  int                       `json:"succeeded"`
	Failed     int                       `json:"failed"`
	Results    []BatchUnitResultResponse `json:"results"`
}

// ToBatchGenerateResponse maps batch outcomes to the transport form.
func ToBatchGenerateResponse(propertyID string, year int, format domain.StatementFormat, outcomes []domain.UnitStatementOutcome) BatchGenerateResponse {
	resp := BatchGenerateResponse{
		PropertyID: propertyID,
		Year:       year,
		Format:     string(format),
		Results:    make([]BatchUnitResultResponse, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		result := BatchUnitResultResponse{
			UnitID:     o.UnitID,
			UnitNumber: o.UnitNumber,
			OwnerName:  o.OwnerName,
			Success:    o.Err == "",
			Error:      o.Err,
		}
		if result.Success {
			result.SizeBytes = len(o.Output)
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp
}
