package org_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lihess/lihess-backend/internal"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	"github.com/lihess/lihess-backend/internal/org"
	"github.com/lihess/lihess-backend/pkg/logger"
)

func TestOrg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Org Suite")
}

type mockOrgRepo struct {
	coes          []*orgModel.CoE
	directorates  []*orgModel.Directorate
	departments   []*orgModel.Department
	positionTypes []*orgModel.PositionType
	positions     []*orgModel.Position
	grants        []*orgModel.Grant
	roles         []*orgModel.Role
	leaveTypes    []*leaveModel.LeaveType
	policies      []*leaveModel.LeavePolicy
	holidays      []*leaveModel.PublicHoliday
}

func (m *mockOrgRepo) FindCoEByNumber(number string) (*orgModel.CoE, error) {
	for _, c := range m.coes {
		if c.Number == number {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) CreateCoE(row *orgModel.CoE) error {
	m.coes = append(m.coes, row)
	return nil
}

func (m *mockOrgRepo) ListCoEs() ([]*orgModel.CoE, error) { return m.coes, nil }

func (m *mockOrgRepo) FindDirectorateByName(name string) (*orgModel.Directorate, error) {
	for _, d := range m.directorates {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) GetDirectorate(id uuid.UUID) (*orgModel.Directorate, error) {
	for _, d := range m.directorates {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, internal.NewNotFoundError("Directorate not found", internal.ErrCodeTargetNotFound)
}

func (m *mockOrgRepo) CreateDirectorate(row *orgModel.Directorate) error {
	m.directorates = append(m.directorates, row)
	return nil
}

func (m *mockOrgRepo) ListDirectorates() ([]*orgModel.Directorate, error) {
	return m.directorates, nil
}

func (m *mockOrgRepo) CreateDepartment(row *orgModel.Department) error {
	m.departments = append(m.departments, row)
	return nil
}

func (m *mockOrgRepo) ListDepartments() ([]*orgModel.Department, error) {
	return m.departments, nil
}

func (m *mockOrgRepo) GetPositionType(id uuid.UUID) (*orgModel.PositionType, error) {
	for _, pt := range m.positionTypes {
		if pt.ID == id {
			return pt, nil
		}
	}
	return nil, internal.NewNotFoundError("Position type not found", internal.ErrCodeTargetNotFound)
}

func (m *mockOrgRepo) ListPositionTypes() ([]*orgModel.PositionType, error) {
	return m.positionTypes, nil
}

func (m *mockOrgRepo) CreatePosition(row *orgModel.Position) error {
	m.positions = append(m.positions, row)
	return nil
}

func (m *mockOrgRepo) ListPositions() ([]*orgModel.Position, error) { return m.positions, nil }

func (m *mockOrgRepo) FindGrantByCode(code string) (*orgModel.Grant, error) {
	for _, g := range m.grants {
		if g.Code == code {
			return g, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) CreateGrant(row *orgModel.Grant) error {
	m.grants = append(m.grants, row)
	return nil
}

func (m *mockOrgRepo) ListGrants() ([]*orgModel.Grant, error) { return m.grants, nil }

func (m *mockOrgRepo) ListRoles() ([]*orgModel.Role, error) { return m.roles, nil }

func (m *mockOrgRepo) FindLeaveTypeByName(name string) (*leaveModel.LeaveType, error) {
	for _, t := range m.leaveTypes {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) GetLeaveType(id uuid.UUID) (*leaveModel.LeaveType, error) {
	for _, t := range m.leaveTypes {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, internal.NewNotFoundError("Leave type not found", internal.ErrCodeTargetNotFound)
}

func (m *mockOrgRepo) CreateLeaveType(row *leaveModel.LeaveType, policy *leaveModel.LeavePolicy) error {
	m.leaveTypes = append(m.leaveTypes, row)
	m.policies = append(m.policies, policy)
	return nil
}

func (m *mockOrgRepo) FindPolicy(leaveTypeID, positionTypeID uuid.UUID) (*leaveModel.LeavePolicy, error) {
	for _, p := range m.policies {
		if p.LeaveTypeID == leaveTypeID && p.PositionTypeID == positionTypeID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) CreatePolicy(row *leaveModel.LeavePolicy) error {
	m.policies = append(m.policies, row)
	return nil
}

func (m *mockOrgRepo) ListLeaveTypes() ([]*leaveModel.LeaveType, error) { return m.leaveTypes, nil }

func (m *mockOrgRepo) ListPolicies() ([]*leaveModel.LeavePolicy, error) { return m.policies, nil }

func (m *mockOrgRepo) FindHolidayByDate(date time.Time) (*leaveModel.PublicHoliday, error) {
	for _, h := range m.holidays {
		if h.Date.Equal(date) {
			return h, nil
		}
	}
	return nil, nil
}

func (m *mockOrgRepo) CreateHoliday(row *leaveModel.PublicHoliday) error {
	m.holidays = append(m.holidays, row)
	return nil
}

func (m *mockOrgRepo) ListHolidays(year int) ([]*leaveModel.PublicHoliday, error) {
	var out []*leaveModel.PublicHoliday
	for _, h := range m.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

var _ = Describe("Org Service", func() {
	var (
		repo *mockOrgRepo
		svc  *org.Service
		ctx  context.Context
	)

	BeforeEach(func() {
		repo = &mockOrgRepo{}
		svc = org.NewService(repo, logger.LoggerWrapper())
		ctx = context.Background()
	})

	Describe("CreateCoE", func() {
		It("stores a new center", func() {
			coe, err := svc.CreateCoE(ctx, org.CreateCoEDTO{Name: "Genomics Center", Number: "12"})
			Expect(err).NotTo(HaveOccurred())
			Expect(coe.ID).NotTo(Equal(uuid.Nil))
			Expect(repo.coes).To(HaveLen(1))
		})

		It("rejects a duplicate number", func() {
			_, err := svc.CreateCoE(ctx, org.CreateCoEDTO{Name: "Genomics Center", Number: "12"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateCoE(ctx, org.CreateCoEDTO{Name: "Another Center", Number: "12"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateDictionary))
		})

		It("requires a number", func() {
			_, err := svc.CreateCoE(ctx, org.CreateCoEDTO{Name: "Genomics Center"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CreateDepartment", func() {
		It("rejects an unknown directorate", func() {
			_, err := svc.CreateDepartment(ctx, org.CreateDepartmentDTO{
				Name:          "Molecular Biology",
				DirectorateID: uuid.New(),
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeTargetNotFound))
		})

		It("attaches the department to its directorate", func() {
			dir, err := svc.CreateDirectorate(ctx, org.CreateDirectorateDTO{Name: "Research"})
			Expect(err).NotTo(HaveOccurred())

			dept, err := svc.CreateDepartment(ctx, org.CreateDepartmentDTO{
				Name:          "Molecular Biology",
				DirectorateID: dir.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.DirectorateID).To(Equal(dir.ID))
		})
	})

	Describe("CreateLeaveType", func() {
		var officerTypeID uuid.UUID

		BeforeEach(func() {
			officerTypeID = uuid.New()
			repo.positionTypes = append(repo.positionTypes, &orgModel.PositionType{
				ID: officerTypeID, Name: "Research Officer", Category: "Officer",
			})
		})

		It("writes the type with its policy bounds", func() {
			detail, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{
				Name:           "Annual Leave",
				PositionTypeID: officerTypeID,
				MinDays:        0.5,
				MaxDays:        25,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.MaxDays).To(Equal(25.0))
			Expect(repo.policies).To(HaveLen(1))
			Expect(repo.policies[0].LeaveTypeID).To(Equal(detail.LeaveType.ID))
			Expect(repo.policies[0].PositionTypeID).To(Equal(officerTypeID))
		})

		It("rejects an unknown position type", func() {
			_, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{
				Name:           "Annual Leave",
				PositionTypeID: uuid.New(),
				MinDays:        1,
				MaxDays:        20,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeTargetNotFound))
		})

		It("rejects inverted bounds", func() {
			_, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{
				Name:           "Annual Leave",
				PositionTypeID: officerTypeID,
				MinDays:        5,
				MaxDays:        2,
			})
			Expect(err).To(HaveOccurred())
			Expect(repo.leaveTypes).To(BeEmpty())
		})

		It("rejects a duplicate name", func() {
			_, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{Name: "Annual Leave", PositionTypeID: officerTypeID, MinDays: 1, MaxDays: 20})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{Name: "Annual Leave", PositionTypeID: officerTypeID, MinDays: 1, MaxDays: 10})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateDictionary))
		})
	})

	Describe("CreateLeavePolicy", func() {
		var officerTypeID, managerTypeID, leaveTypeID uuid.UUID

		BeforeEach(func() {
			officerTypeID = uuid.New()
			managerTypeID = uuid.New()
			repo.positionTypes = append(repo.positionTypes,
				&orgModel.PositionType{ID: officerTypeID, Name: "Research Officer", Category: "Officer"},
				&orgModel.PositionType{ID: managerTypeID, Name: "Laboratory Manager", Category: "Manager"},
			)
			detail, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{
				Name: "Annual Leave", PositionTypeID: officerTypeID, MinDays: 1, MaxDays: 20,
			})
			Expect(err).NotTo(HaveOccurred())
			leaveTypeID = detail.LeaveType.ID
		})

		It("adds bounds for another position category", func() {
			row, err := svc.CreateLeavePolicy(ctx, org.CreateLeavePolicyDTO{
				LeaveTypeID: leaveTypeID, PositionTypeID: managerTypeID, MinDays: 1, MaxDays: 30,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(row.PositionTypeID).To(Equal(managerTypeID))
			Expect(repo.policies).To(HaveLen(2))
		})

		It("rejects a duplicate pair", func() {
			_, err := svc.CreateLeavePolicy(ctx, org.CreateLeavePolicyDTO{
				LeaveTypeID: leaveTypeID, PositionTypeID: officerTypeID, MinDays: 1, MaxDays: 25,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateDictionary))
		})
	})

	Describe("ListLeaveTypes", func() {
		It("pairs each type with its bounds per position category", func() {
			officerTypeID := uuid.New()
			repo.positionTypes = append(repo.positionTypes, &orgModel.PositionType{
				ID: officerTypeID, Name: "Research Officer", Category: "Officer",
			})

			_, err := svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{Name: "Annual Leave", PositionTypeID: officerTypeID, MinDays: 0.5, MaxDays: 25})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreateLeaveType(ctx, org.CreateLeaveTypeDTO{Name: "Sick Leave", PositionTypeID: officerTypeID, MinDays: 0.5, MaxDays: 30})
			Expect(err).NotTo(HaveOccurred())

			details, err := svc.ListLeaveTypes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(details).To(HaveLen(2))
			for _, d := range details {
				Expect(d.PositionTypeID).To(Equal(officerTypeID))
				Expect(d.MaxDays).To(BeNumerically(">", 0))
			}
		})
	})

	Describe("CreateHoliday", func() {
		day := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)

		It("rejects a second holiday on the same date", func() {
			_, err := svc.CreateHoliday(ctx, org.CreateHolidayDTO{Date: day, Name: "Christmas Day"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateHoliday(ctx, org.CreateHolidayDTO{Date: day, Name: "Also Christmas"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateDictionary))
		})

		It("filters the listing by year", func() {
			_, err := svc.CreateHoliday(ctx, org.CreateHolidayDTO{Date: day, Name: "Christmas Day"})
			Expect(err).NotTo(HaveOccurred())

			rows, err := svc.ListHolidays(ctx, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))

			rows, err = svc.ListHolidays(ctx, 2027)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})
})
