package testutil

import "github.com/roach88/aivia/internal/ir"

// ClinicalTables returns the clinical fixture tables in declaration order.
// The same schema is declared in testdata/config/schema.cue.
func ClinicalTables() []ir.SchemaTable {
	return []ir.SchemaTable{
		{
			Name:        "PATIENT",
			Aliases:     []string{"patient", "patients"},
			Description: "Patient demographics",
			PrimaryKey:  "PAT_ID",
			Columns: []ir.Column{
				{Name: "PAT_ID", Description: "Patient identifier"},
				{Name: "PAT_NAME", Description: "Patient full name"},
				{Name: "BIRTH_DATE"},
			},
		},
		{
			Name:        "PAT_ENC",
			Aliases:     []string{"encounter", "encounters", "visit", "visits"},
			Description: "Patient encounters",
			Columns: []ir.Column{
				{Name: "PAT_ENC_CSN_ID"},
				{Name: "PAT_ID"},
				{Name: "CONTACT_DATE"},
				{Name: "DEPARTMENT_ID"},
				{Name: "VISIT_PROV_ID"},
			},
		},
		{
			Name:        "REFERRAL",
			Aliases:     []string{"referral", "referrals"},
			Description: "Outgoing and incoming referrals",
			Columns: []ir.Column{
				{Name: "REFERRAL_ID"},
				{Name: "PAT_ID"},
				{Name: "REFERRAL_DATE"},
				{Name: "RFL_STATUS_C"},
			},
		},
		{
			Name:        "F_SCHED_APPT",
			Aliases:     []string{"appointment", "appointments"},
			Description: "Scheduled appointments",
			Columns: []ir.Column{
				{Name: "PAT_ENC_CSN_ID"},
				{Name: "PAT_ID"},
				{Name: "APPT_STATUS_C"},
				{Name: "CONTACT_DATE"},
			},
		},
		{
			Name:        "CLARITY_SER",
			Aliases:     []string{"provider", "providers", "physician", "physicians"},
			Description: "Providers",
			Columns: []ir.Column{
				{Name: "PROV_ID"},
				{Name: "PROV_NAME"},
			},
		},
		{
			Name:        "CLARITY_DEP",
			Aliases:     []string{"department", "departments", "clinic", "clinics"},
			Description: "Departments",
			PrimaryKey:  "DEPARTMENT_ID",
			Columns: []ir.Column{
				{Name: "DEPARTMENT_ID"},
				{Name: "DEPARTMENT_NAME"},
			},
		},
		{
			Name:        "PAT_ENC_DX",
			Aliases:     []string{"encounter diagnosis"},
			Description: "Clinical diagnosis records for encounters",
			Columns: []ir.Column{
				{Name: "PAT_ENC_CSN_ID"},
				{Name: "DX_ID"},
				{Name: "DX_NAME", Description: "Diagnosis name text"},
			},
		},
		{
			Name:        "ZC_APPT_STATUS",
			Aliases:     []string{"appointment status"},
			Description: "Appointment status categories",
			Columns: []ir.Column{
				{Name: "APPT_STATUS_C"},
				{Name: "NAME"},
			},
		},
		{
			Name:        "ZC_RFL_STATUS",
			Aliases:     []string{"referral status"},
			Description: "Referral status categories",
			Columns: []ir.Column{
				{Name: "RFL_STATUS_C"},
				{Name: "NAME"},
			},
		},
	}
}

// ClinicalJoins returns the clinical fixture join edges.
func ClinicalJoins() []ir.JoinEdge {
	return []ir.JoinEdge{
		{LeftTable: "PATIENT", RightTable: "PAT_ENC", Predicate: "PAT_ENC.PAT_ID = PATIENT.PAT_ID"},
		{LeftTable: "PATIENT", RightTable: "REFERRAL", Predicate: "REFERRAL.PAT_ID = PATIENT.PAT_ID"},
		{LeftTable: "PATIENT", RightTable: "F_SCHED_APPT", Predicate: "F_SCHED_APPT.PAT_ID = PATIENT.PAT_ID"},
		{LeftTable: "PAT_ENC", RightTable: "CLARITY_SER", Predicate: "PAT_ENC.VISIT_PROV_ID = CLARITY_SER.PROV_ID"},
		{LeftTable: "PAT_ENC", RightTable: "CLARITY_DEP", Predicate: "PAT_ENC.DEPARTMENT_ID = CLARITY_DEP.DEPARTMENT_ID"},
		{LeftTable: "PAT_ENC", RightTable: "PAT_ENC_DX", Predicate: "PAT_ENC_DX.PAT_ENC_CSN_ID = PAT_ENC.PAT_ENC_CSN_ID"},
		{LeftTable: "F_SCHED_APPT", RightTable: "ZC_APPT_STATUS", Predicate: "F_SCHED_APPT.APPT_STATUS_C = ZC_APPT_STATUS.APPT_STATUS_C"},
		{LeftTable: "REFERRAL", RightTable: "ZC_RFL_STATUS", Predicate: "REFERRAL.RFL_STATUS_C = ZC_RFL_STATUS.RFL_STATUS_C"},
	}
}

// ClinicalSchema builds the clinical fixture schema.
func ClinicalSchema() *ir.Schema {
	return ir.NewSchema(ClinicalTables(), ClinicalJoins())
}

// ClinicalRegistry returns the fixture concept registry.
func ClinicalRegistry() *ir.ConceptRegistry {
	return ir.NewConceptRegistry(
		ir.ConceptEntry{PreferredTerm: "Diabetes Mellitus", Synonyms: []string{"diabetes", "sugar disease"}},
		ir.ConceptEntry{PreferredTerm: "Hypertension", Synonyms: []string{"high blood pressure"}},
		ir.ConceptEntry{PreferredTerm: "Asthma"},
		ir.ConceptEntry{PreferredTerm: "Arthritis", Synonyms: []string{"joint inflammation"}},
	)
}

// ClinicalEntityTypes returns the fixture entity type configuration.
func ClinicalEntityTypes() ir.EntityTypes {
	return ir.EntityTypes{
		{Name: "appointment", SemanticIndicators: []string{"appointment", "appt"}, TablePatterns: []string{"F_SCHED_APPT", "ZC_APPT_*"}},
		{Name: "referral", SemanticIndicators: []string{"referral", "rfl"}, TablePatterns: []string{"REFERRAL*", "ZC_RFL_*"}},
		{Name: "encounter", SemanticIndicators: []string{"encounter", "visit"}, TablePatterns: []string{"PAT_ENC"}},
	}
}
