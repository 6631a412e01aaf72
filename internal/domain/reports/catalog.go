package reports

// Templates is the immutable report template catalog.
var Templates = []ReportTemplate{
	{
		ID:          "health-summary",
		Name:        "Health Summary",
		Description: "An overview of current health status: vitals, active medications and known conditions",
		Version:     2,
		Sections: []ReportSection{
			{ID: "overview", Title: "Overview", Type: "summary", DataPoints: []string{"age", "blood_group", "allergies"}, DefaultIncluded: true},
			{ID: "vitals", Title: "Vital Trends", Type: "observations", DataPoints: []string{"blood_pressure", "heart_rate", "weight", "spo2"}, ChartHint: "line", DefaultIncluded: true},
			{ID: "medications", Title: "Active Medications", Type: "medications", DataPoints: []string{"drug", "dosage", "frequency"}, DefaultIncluded: true},
			{ID: "conditions", Title: "Conditions", Type: "diagnoses", DataPoints: []string{"condition", "diagnosed_on", "status"}, DefaultIncluded: false},
		},
	},
	{
		ID:          "lab-report",
		Name:        "Laboratory Report",
		Description: "Consolidated lab results with reference ranges",
		Version:     1,
		Sections: []ReportSection{
			{ID: "lab_results", Title: "Lab Results", Type: "observations", DataPoints: []string{"hba1c", "lipid_profile", "cbc", "thyroid"}, ChartHint: "bar", DefaultIncluded: true},
			{ID: "reference_ranges", Title: "Reference Ranges", Type: "reference", DataPoints: []string{"range_low", "range_high"}, DefaultIncluded: true},
			{ID: "lab_notes", Title: "Pathologist Notes", Type: "notes", DataPoints: []string{"note"}, DefaultIncluded: false},
		},
	},
	{
		ID:          "medication-history",
		Name:        "Medication History",
		Description: "Prescription history and adherence over the selected period",
		Version:     1,
		Sections: []ReportSection{
			{ID: "prescriptions", Title: "Prescriptions", Type: "medications", DataPoints: []string{"drug", "prescriber", "start", "end"}, DefaultIncluded: true},
			{ID: "adherence", Title: "Adherence", Type: "observations", DataPoints: []string{"taken", "missed"}, ChartHint: "bar", DefaultIncluded: false},
		},
	},
	{
		ID:          "comprehensive",
		Name:        "Comprehensive Health Record",
		Description: "Everything on file: vitals, labs, medications, immunizations and documents",
		Version:     3,
		Sections: []ReportSection{
			{ID: "overview", Title: "Overview", Type: "summary", DataPoints: []string{"age", "blood_group", "allergies"}, DefaultIncluded: true},
			{ID: "vitals", Title: "Vital Trends", Type: "observations", DataPoints: []string{"blood_pressure", "heart_rate", "weight", "spo2"}, ChartHint: "line", DefaultIncluded: true},
			{ID: "lab_results", Title: "Lab Results", Type: "observations", DataPoints: []string{"hba1c", "lipid_profile", "cbc", "thyroid"}, ChartHint: "bar", DefaultIncluded: true},
			{ID: "medications", Title: "Medications", Type: "medications", DataPoints: []string{"drug", "dosage", "frequency"}, DefaultIncluded: true},
			{ID: "immunizations", Title: "Immunizations", Type: "immunizations", DataPoints: []string{"vaccine", "date", "dose"}, DefaultIncluded: true},
			{ID: "documents", Title: "Documents", Type: "documents", DataPoints: []string{"title", "date", "source"}, DefaultIncluded: false},
		},
	},
}

// FindTemplate looks up a template by ID.
func FindTemplate(id string) *ReportTemplate {
	for i := range Templates {
		if Templates[i].ID == id {
			return &Templates[i]
		}
	}
	return nil
}
