package memory

import (
	"context"
	"fmt"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "secret1"

// Seed fills the store with a small clinic: one manager, consultants with
// qualifications, staff, a customer and the service catalog.
func Seed(ctx context.Context, s *Store) error {
	people := []struct {
		first, last, email, role string
	}{
		{"Morgan", "Reyes", "manager@clinic.test", domain.RoleManager},
		{"Avery", "Brooks", "a@b.com", domain.RoleConsultant},
		{"Jordan", "Okafor", "jordan@clinic.test", domain.RoleConsultant},
		{"Sam", "Lindqvist", "sam@clinic.test", domain.RoleStaff},
		{"Riley", "Tanaka", "riley@clinic.test", domain.RoleStaff},
		{"Casey", "Moreau", "casey@example.test", domain.RoleCustomer},
	}
	ids := make(map[string]int64, len(people))
	for _, p := range people {
		u, err := s.CreateAccount(ctx, domain.User{
			FirstName: p.first,
			LastName:  p.last,
			Email:     p.email,
			Roles:     []string{p.role},
		}, SeedPassword)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", p.email, err)
		}
		ids[p.email] = u.UserID
	}

	for _, q := range []domain.QualificationInput{
		{ConsultantID: ids["a@b.com"], Qualifications: "MD, Obstetrics & Gynaecology", Experience: "12 years", Specialization: "Reproductive health"},
		{ConsultantID: ids["jordan@clinic.test"], Qualifications: "MSc Sexual Health", Experience: "6 years", Specialization: "STI counselling"},
	} {
		if _, err := s.CreateQualification(ctx, q); err != nil {
			return fmt.Errorf("seed qualification: %w", err)
		}
	}

	for _, svc := range []domain.Service{
		{ServiceName: "STI Screening", Description: "Full panel screening", Price: 75, EstimatedDuration: 30, Category: "Testing", IsActive: true},
		{ServiceName: "Contraception Counselling", Description: "Options review with a consultant", Price: 60, EstimatedDuration: 45, Category: "Consultation", IsActive: true},
		{ServiceName: "Fertility Consultation", Description: "Initial fertility assessment", Price: 150, EstimatedDuration: 60, Category: "Consultation", IsActive: true},
		{ServiceName: "HIV Testing", Description: "Rapid test with counselling", Price: 50, EstimatedDuration: 20, Category: "Testing", IsActive: true},
		{ServiceName: "Menstrual Health Review", Description: "Cycle tracking review", Price: 76, EstimatedDuration: 30, Category: "Consultation", IsActive: false},
	} {
		s.AddService(svc)
	}
	return nil
}
