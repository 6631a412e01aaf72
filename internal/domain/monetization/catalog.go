package monetization

import "time"

// Plans is the subscription tier catalog.
var Plans = []Plan{
	{
		ID: "free", Name: "Free", Currency: "INR",
		Features: []string{"Store health records", "ABHA linking", "Basic reports"},
	},
	{
		ID: "plus", Name: "AyuSetu Plus", PriceMonthly: 9900, PriceYearly: 99900, Currency: "INR",
		Features:  []string{"Everything in Free", "Unlimited exports", "Cloud backup", "Priority support"},
		Highlight: true,
	},
	{
		ID: "family", Name: "AyuSetu Family", PriceMonthly: 19900, PriceYearly: 199900, Currency: "INR",
		Features: []string{"Everything in Plus", "Up to 6 family members", "Shared emergency card"},
	},
}

var PremiumFeatures = []PremiumFeature{
	{ID: "unlimited-exports", Name: "Unlimited Exports", Description: "Export records in any format without monthly caps", MinPlanID: "plus"},
	{ID: "cloud-backup", Name: "Cloud Backup", Description: "Automatic encrypted backup of all records", MinPlanID: "plus"},
	{ID: "ai-insights", Name: "AI Health Insights", Description: "Personalised trends and predictive alerts", MinPlanID: "plus"},
	{ID: "family-vault", Name: "Family Vault", Description: "Manage records for up to 6 family members", MinPlanID: "family"},
}

var Partners = []PartnerService{
	{ID: "lab-healthquick", Name: "HealthQuick Labs", Type: "diagnostics", Description: "Home sample collection for 200+ tests", Discount: "20% off", URL: "https://partners.ayusetu.health/healthquick"},
	{ID: "lab-pathpoint", Name: "PathPoint Diagnostics", Type: "diagnostics", Description: "Full-body checkup packages", Discount: "15% off", URL: "https://partners.ayusetu.health/pathpoint"},
	{ID: "pharm-medexpress", Name: "MedExpress Pharmacy", Type: "pharmacy", Description: "Medicine delivery within 4 hours", Discount: "10% off", URL: "https://partners.ayusetu.health/medexpress"},
	{ID: "ins-carecover", Name: "CareCover Insurance", Type: "insurance", Description: "Health insurance with instant claim via ABHA", URL: "https://partners.ayusetu.health/carecover"},
}

var Doctors = []Doctor{
	{ID: "doc-sharma", Name: "Dr. Anita Sharma", Specialization: "General Physician", ExperienceYrs: 14, Rating: 4.8, Fee: 40000},
	{ID: "doc-rao", Name: "Dr. Vikram Rao", Specialization: "Cardiologist", ExperienceYrs: 21, Rating: 4.9, Fee: 90000},
	{ID: "doc-iyer", Name: "Dr. Meera Iyer", Specialization: "Dermatologist", ExperienceYrs: 9, Rating: 4.6, Fee: 60000},
	{ID: "doc-khan", Name: "Dr. Imran Khan", Specialization: "Pediatrician", ExperienceYrs: 12, Rating: 4.7, Fee: 50000},
	{ID: "doc-nair", Name: "Dr. Lakshmi Nair", Specialization: "Endocrinologist", ExperienceYrs: 17, Rating: 4.8, Fee: 80000},
}

var Offers = []Offer{
	{ID: "offer-welcome", Title: "Welcome Offer", Description: "First month of Plus free for new users", Code: "WELCOME1", Discount: "100% off first month", ValidUntil: time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)},
	{ID: "offer-annual", Title: "Annual Saver", Description: "Two months free on yearly Plus", Code: "YEAR2FREE", Discount: "2 months free", ValidUntil: time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)},
}

// FindPlan looks up a plan by ID.
func FindPlan(id string) *Plan {
	for i := range Plans {
		if Plans[i].ID == id {
			return &Plans[i]
		}
	}
	return nil
}

// FindDoctor looks up a doctor by ID.
func FindDoctor(id string) *Doctor {
	for i := range Doctors {
		if Doctors[i].ID == id {
			return &Doctors[i]
		}
	}
	return nil
}
