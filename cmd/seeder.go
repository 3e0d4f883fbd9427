package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

var seedCmd = &cobra.Command{
	RunE:  runSeeder,
	Use:   "seed",
	Short: "to seed dictionary data and the bootstrap admin account",
}

func runSeeder(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(gormpostgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	if clearData {
		if err := clearTables(db); err != nil {
			return err
		}
		log.Println("existing data cleared")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedRoles(tx); err != nil {
			return err
		}
		if err := seedOrgStructure(tx); err != nil {
			return err
		}
		if err := seedLeaveDictionaries(tx); err != nil {
			return err
		}
		if err := seedAdminAccount(tx); err != nil {
			return err
		}
		log.Println("seeding completed")
		return nil
	})
}

func clearTables(db *gorm.DB) error {
	tables := []string{
		"notifications",
		"leave_applications",
		"leave_balances",
		"leave_policies",
		"public_holidays",
		"leave_types",
		"workgroup_approvers",
		"workgroup_assignments",
		"workgroups",
		"role_assignments",
		"grant_assignments",
		"director_assignments",
		"department_assignments",
		"position_assignments",
		"coe_assignments",
		"accounts",
		"staff",
		"grants",
		"departments",
		"directorates",
		"coes",
		"positions",
		"position_types",
		"roles",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func seedRoles(tx *gorm.DB) error {
	roles := []orgModel.Role{
		{ID: uuid.New(), Name: "admin", Description: "Full access to every operation"},
		{ID: uuid.New(), Name: "hr", Description: "Workforce administration"},
		{ID: uuid.New(), Name: "approver", Description: "Decides leave applications"},
		{ID: uuid.New(), Name: "staff", Description: "Regular staff member"},
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&roles).Error
}

func seedOrgStructure(tx *gorm.DB) error {
	positionTypes := []orgModel.PositionType{
		{ID: uuid.New(), Name: "Head of Department", Category: "manager"},
		{ID: uuid.New(), Name: "Director", Category: "director"},
		{ID: uuid.New(), Name: "Officer", Category: "officer"},
		{ID: uuid.New(), Name: "Coordinator", Category: "coordinator"},
		{ID: uuid.New(), Name: "General Staff", Category: "general"},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&positionTypes).Error; err != nil {
		return fmt.Errorf("seeding position types: %w", err)
	}

	positions := []orgModel.Position{
		{ID: uuid.New(), Title: "Head of Research", PositionTypeID: positionTypes[0].ID},
		{ID: uuid.New(), Title: "Managing Director", PositionTypeID: positionTypes[1].ID},
		{ID: uuid.New(), Title: "HR Officer", PositionTypeID: positionTypes[2].ID},
		{ID: uuid.New(), Title: "Project Coordinator", PositionTypeID: positionTypes[3].ID},
		{ID: uuid.New(), Title: "Research Scientist", PositionTypeID: positionTypes[4].ID},
		{ID: uuid.New(), Title: "Laboratory Technician", PositionTypeID: positionTypes[4].ID},
	}
	if err := tx.Create(&positions).Error; err != nil {
		return fmt.Errorf("seeding positions: %w", err)
	}

	directorate := orgModel.Directorate{ID: uuid.New(), Name: "Research and Operations"}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&directorate).Error; err != nil {
		return fmt.Errorf("seeding directorate: %w", err)
	}

	departments := []orgModel.Department{
		{ID: uuid.New(), Name: "Human Resources", DirectorateID: directorate.ID},
		{ID: uuid.New(), Name: "Molecular Biology", DirectorateID: directorate.ID},
		{ID: uuid.New(), Name: "Finance", DirectorateID: directorate.ID},
	}
	if err := tx.Create(&departments).Error; err != nil {
		return fmt.Errorf("seeding departments: %w", err)
	}

	coes := []orgModel.CoE{
		{ID: uuid.New(), Name: "Central Administration", Number: "10", CenterName: "Headquarters"},
		{ID: uuid.New(), Name: "Genomics Center", Number: "12", CenterName: "North Campus"},
		{ID: uuid.New(), Name: "Clinical Research Center", Number: "14", CenterName: "South Campus"},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoNothing: true,
	}).Create(&coes).Error; err != nil {
		return fmt.Errorf("seeding coes: %w", err)
	}

	grants := []orgModel.Grant{
		{ID: uuid.New(), Name: "Core Funding", Code: "CORE-2026"},
		{ID: uuid.New(), Name: "Genome Atlas Project", Code: "GAP-041"},
		{ID: uuid.New(), Name: "Clinical Trials Initiative", Code: "CTI-117"},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&grants).Error; err != nil {
		return fmt.Errorf("seeding grants: %w", err)
	}

	return nil
}

func seedLeaveDictionaries(tx *gorm.DB) error {
	leaveTypes := []leaveModel.LeaveType{
		{ID: uuid.New(), Name: "Annual Leave"},
		{ID: uuid.New(), Name: "Sick Leave"},
		{ID: uuid.New(), Name: "Unpaid Leave"},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&leaveTypes).Error; err != nil {
		return fmt.Errorf("seeding leave types: %w", err)
	}

	var positionTypes []orgModel.PositionType
	if err := tx.Find(&positionTypes).Error; err != nil {
		return fmt.Errorf("loading position types: %w", err)
	}

	// Every position category starts from the same bounds. HR narrows
	// them per category through the dictionary endpoints afterwards.
	bounds := []struct {
		leaveTypeID uuid.UUID
		minDays     float64
		maxDays     float64
	}{
		{leaveTypes[0].ID, 0.5, 25},
		{leaveTypes[1].ID, 0.5, 30},
		{leaveTypes[2].ID, 1, 90},
	}
	var policies []leaveModel.LeavePolicy
	for _, b := range bounds {
		for _, pt := range positionTypes {
			policies = append(policies, leaveModel.LeavePolicy{
				ID:             uuid.New(),
				LeaveTypeID:    b.leaveTypeID,
				PositionTypeID: pt.ID,
				MinDays:        b.minDays,
				MaxDays:        b.maxDays,
			})
		}
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "leave_type_id"}, {Name: "position_type_id"}},
		DoNothing: true,
	}).Create(&policies).Error; err != nil {
		return fmt.Errorf("seeding leave policies: %w", err)
	}

	year := time.Now().Year()
	holidays := []leaveModel.PublicHoliday{
		{ID: uuid.New(), Date: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), Name: "New Year's Day"},
		{ID: uuid.New(), Date: time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC), Name: "Labour Day"},
		{ID: uuid.New(), Date: time.Date(year, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas Day"},
		{ID: uuid.New(), Date: time.Date(year, 12, 26, 0, 0, 0, 0, time.UTC), Name: "Boxing Day"},
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "holiday_date"}},
		DoNothing: true,
	}).Create(&holidays).Error; err != nil {
		return fmt.Errorf("seeding public holidays: %w", err)
	}

	return nil
}

// seedAdminAccount bootstraps the first login. The password is a placeholder
// and must be rotated right after the first deployment.
func seedAdminAccount(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&staffModel.Account{}).Where("username = ?", "10_0001").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("admin account already present, skipping")
		return nil
	}

	var adminRole orgModel.Role
	if err := tx.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return fmt.Errorf("loading admin role: %w", err)
	}
	var hq orgModel.CoE
	if err := tx.Where("number = ?", "10").First(&hq).Error; err != nil {
		return fmt.Errorf("loading headquarters coe: %w", err)
	}
	var hrOfficer orgModel.Position
	if err := tx.Where("title = ?", "HR Officer").First(&hrOfficer).Error; err != nil {
		return fmt.Errorf("loading hr officer position: %w", err)
	}

	now := time.Now()
	admin := staffModel.Staff{
		ID:             uuid.New(),
		EmployeeNumber: "0001",
		FirstName:      "System",
		LastName:       "Administrator",
		Email:          "admin@lihess.local",
		HireDate:       now,
		IsActive:       true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("seeding admin staff: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account := staffModel.Account{
		ID:           uuid.New(),
		StaffID:      admin.ID,
		Username:     "10_0001",
		PasswordHash: string(hash),
		IsActive:     true,
		ActivatedAt:  &now,
	}
	if err := tx.Create(&account).Error; err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	window := assignmentModel.Window{StartDate: now, AssignedBy: admin.ID}
	if err := tx.Create(&assignmentModel.CoEAssignment{
		ID:      uuid.New(),
		StaffID: admin.ID,
		CoEID:   hq.ID,
		Window:  window,
	}).Error; err != nil {
		return fmt.Errorf("seeding admin coe assignment: %w", err)
	}
	if err := tx.Create(&assignmentModel.PositionAssignment{
		ID:         uuid.New(),
		StaffID:    admin.ID,
		PositionID: hrOfficer.ID,
		Window:     window,
	}).Error; err != nil {
		return fmt.Errorf("seeding admin position assignment: %w", err)
	}
	if err := tx.Create(&assignmentModel.RoleAssignment{
		ID:        uuid.New(),
		AccountID: account.ID,
		RoleID:    adminRole.ID,
		Window:    window,
	}).Error; err != nil {
		return fmt.Errorf("seeding admin role assignment: %w", err)
	}

	log.Println("admin account seeded: username 10_0001")
	return nil
}
