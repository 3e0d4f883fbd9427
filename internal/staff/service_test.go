package staff_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	"github.com/lihess/lihess-backend/internal/core/events"
	"github.com/lihess/lihess-backend/internal/staff"
)

func TestStaff(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Staff Suite")
}

type mockStaffRepo struct {
	staff    map[uuid.UUID]*staffModel.Staff
	accounts map[uuid.UUID]*staffModel.Account

	coes        map[uuid.UUID]*orgModel.CoE
	departments map[uuid.UUID]*orgModel.Department
	positions   map[uuid.UUID]*orgModel.Position
	grants      map[uuid.UUID]*orgModel.Grant
	roles       map[uuid.UUID]*orgModel.Role

	coeRows        []*assignmentModel.CoEAssignment
	departmentRows []*assignmentModel.DepartmentAssignment
	positionRows   []*assignmentModel.PositionAssignment
	grantRows      []*assignmentModel.GrantAssignment
	roleRows       []*assignmentModel.RoleAssignment

	closedAllAt *time.Time

	openPositionError error
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{
		staff:       make(map[uuid.UUID]*staffModel.Staff),
		accounts:    make(map[uuid.UUID]*staffModel.Account),
		coes:        make(map[uuid.UUID]*orgModel.CoE),
		departments: make(map[uuid.UUID]*orgModel.Department),
		positions:   make(map[uuid.UUID]*orgModel.Position),
		grants:      make(map[uuid.UUID]*orgModel.Grant),
		roles:       make(map[uuid.UUID]*orgModel.Role),
	}
}

func (m *mockStaffRepo) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, internal.ErrStaffNotFound
}

func (m *mockStaffRepo) FindStaffByEmail(email string) (*staffModel.Staff, error) {
	for _, s := range m.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStaffRepo) FindStaffByEmployeeNumber(employeeNumber string) (*staffModel.Staff, error) {
	for _, s := range m.staff {
		if s.EmployeeNumber == employeeNumber {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStaffRepo) CreateStaff(row *staffModel.Staff) error {
	m.staff[row.ID] = row
	return nil
}

func (m *mockStaffRepo) UpdateStaff(row *staffModel.Staff) error {
	m.staff[row.ID] = row
	return nil
}

func (m *mockStaffRepo) ListStaff() ([]*staffModel.Staff, error) {
	var out []*staffModel.Staff
	for _, s := range m.staff {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStaffRepo) GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error) {
	for _, a := range m.accounts {
		if a.StaffID == staffID {
			return a, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockStaffRepo) CreateAccount(row *staffModel.Account) error {
	m.accounts[row.ID] = row
	return nil
}

func (m *mockStaffRepo) UpdateAccountOTP(accountID uuid.UUID, otpHash string, expiresAt time.Time) error {
	if a, ok := m.accounts[accountID]; ok {
		a.OTPHash = &otpHash
		a.OTPExpiresAt = &expiresAt
	}
	return nil
}

func (m *mockStaffRepo) DeactivateAccount(accountID uuid.UUID) error {
	if a, ok := m.accounts[accountID]; ok {
		a.IsActive = false
		a.PasswordHash = ""
	}
	return nil
}

func (m *mockStaffRepo) GetCoE(id uuid.UUID) (*orgModel.CoE, error) {
	if c, ok := m.coes[id]; ok {
		return c, nil
	}
	return nil, internal.NewNotFoundError("CoE not found", internal.ErrCodeTargetNotFound)
}

func (m *mockStaffRepo) GetDepartment(id uuid.UUID) (*orgModel.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, internal.NewNotFoundError("Department not found", internal.ErrCodeTargetNotFound)
}

func (m *mockStaffRepo) GetPosition(id uuid.UUID) (*orgModel.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, internal.NewNotFoundError("Position not found", internal.ErrCodeTargetNotFound)
}

func (m *mockStaffRepo) GetGrant(id uuid.UUID) (*orgModel.Grant, error) {
	if g, ok := m.grants[id]; ok {
		return g, nil
	}
	return nil, internal.NewNotFoundError("Grant not found", internal.ErrCodeTargetNotFound)
}

func (m *mockStaffRepo) GetRole(id uuid.UUID) (*orgModel.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeTargetNotFound)
}

func (m *mockStaffRepo) OpenCoE(row *assignmentModel.CoEAssignment) error {
	m.coeRows = append(m.coeRows, row)
	return nil
}

func (m *mockStaffRepo) OpenDepartment(row *assignmentModel.DepartmentAssignment) error {
	m.departmentRows = append(m.departmentRows, row)
	return nil
}

func (m *mockStaffRepo) OpenPosition(row *assignmentModel.PositionAssignment) error {
	if m.openPositionError != nil {
		return m.openPositionError
	}
	m.positionRows = append(m.positionRows, row)
	return nil
}

func (m *mockStaffRepo) OpenGrant(row *assignmentModel.GrantAssignment) error {
	m.grantRows = append(m.grantRows, row)
	return nil
}

func (m *mockStaffRepo) OpenRole(row *assignmentModel.RoleAssignment) error {
	m.roleRows = append(m.roleRows, row)
	return nil
}

func (m *mockStaffRepo) CloseAllAssignments(staffID, accountID uuid.UUID, endDate time.Time) error {
	m.closedAllAt = &endDate
	return nil
}

type mockTxManager struct {
	repo *mockStaffRepo
}

func (m *mockTxManager) InTx(fn func(staff.Repository) error) error {
	return fn(m.repo)
}

type mockAssignmentAPI struct {
	transferredCoE     *uuid.UUID
	assignedDepartment *uuid.UUID
	assignedPosition   *uuid.UUID
}

func (m *mockAssignmentAPI) TransferCoE(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.TransferCoEDTO) (*assignment.TransferResult, error) {
	m.transferredCoE = &dto.CoEID
	return &assignment.TransferResult{
		Assignment: &assignmentModel.CoEAssignment{ID: uuid.New(), StaffID: staffID, CoEID: dto.CoEID},
	}, nil
}

func (m *mockAssignmentAPI) AssignDepartment(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.AssignDepartmentDTO) (*assignmentModel.DepartmentAssignment, error) {
	m.assignedDepartment = &dto.DepartmentID
	return &assignmentModel.DepartmentAssignment{ID: uuid.New(), StaffID: staffID, DepartmentID: dto.DepartmentID}, nil
}

func (m *mockAssignmentAPI) AssignPosition(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.AssignPositionDTO) (*assignmentModel.PositionAssignment, error) {
	m.assignedPosition = &dto.PositionID
	return &assignmentModel.PositionAssignment{ID: uuid.New(), StaffID: staffID, PositionID: dto.PositionID}, nil
}

var _ = Describe("StaffService", func() {
	var (
		svc         *staff.Service
		mockRepo    *mockStaffRepo
		assignments *mockAssignmentAPI
		bus         *events.EventBus
		ctx         context.Context

		actorID  uuid.UUID
		coeID    uuid.UUID
		deptID   uuid.UUID
		posID    uuid.UUID
		grantID  uuid.UUID
		roleID   uuid.UUID
		hireDate time.Time
	)

	baseDTO := func() staff.CreateStaffDTO {
		return staff.CreateStaffDTO{
			EmployeeNumber: "1042",
			FirstName:      "Nino",
			LastName:       "Beridze",
			Email:          "nino.beridze@example.org",
			HireDate:       hireDate,
			CoEID:          coeID,
			DepartmentID:   deptID,
			PositionID:     posID,
		}
	}

	BeforeEach(func() {
		mockRepo = newMockStaffRepo()
		assignments = &mockAssignmentAPI{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(lg)
		svc = staff.NewService(mockRepo, &mockTxManager{repo: mockRepo}, assignments, bus, lg)
		ctx = context.Background()

		actorID = uuid.New()
		hireDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		coe := &orgModel.CoE{ID: uuid.New(), Name: "Digital Health", Number: "12"}
		coeID = coe.ID
		mockRepo.coes[coe.ID] = coe

		dept := &orgModel.Department{ID: uuid.New(), Name: "Epidemiology"}
		deptID = dept.ID
		mockRepo.departments[dept.ID] = dept

		pos := &orgModel.Position{ID: uuid.New(), Title: "Analyst"}
		posID = pos.ID
		mockRepo.positions[pos.ID] = pos

		grant := &orgModel.Grant{ID: uuid.New(), Name: "Global Fund", Code: "GF-11"}
		grantID = grant.ID
		mockRepo.grants[grant.ID] = grant

		role := &orgModel.Role{ID: uuid.New(), Name: internal.RoleStaff}
		roleID = role.ID
		mockRepo.roles[role.ID] = role
	})

	Describe("CreateStaff", func() {
		It("creates the staff row, an inactive account and the initial assignments", func() {
			row, err := svc.CreateStaff(ctx, actorID, baseDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.staff).To(HaveKey(row.ID))

			account, err := mockRepo.GetAccountByStaffID(row.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(account.Username).To(Equal("12_1042"))
			Expect(account.IsActive).To(BeFalse())
			Expect(account.PasswordHash).To(BeEmpty())
			Expect(account.OTPHash).ToNot(BeNil())
			Expect(account.OTPExpiresAt).ToNot(BeNil())

			Expect(mockRepo.coeRows).To(HaveLen(1))
			Expect(mockRepo.departmentRows).To(HaveLen(1))
			Expect(mockRepo.positionRows).To(HaveLen(1))
			Expect(mockRepo.coeRows[0].Window.AssignedBy).To(Equal(actorID))
			Expect(mockRepo.coeRows[0].Window.StartDate).To(Equal(hireDate))
		})

		It("carries the personal detail fields onto the staff row", func() {
			dto := baseDTO()
			dto.Title = "Dr"
			dto.Gender = "female"
			dto.HomeAddress = "14 Marina Road, Lagos"
			dto.HighestEducation = "PhD"
			dto.FieldOfStudy = "Parasitology"

			row, err := svc.CreateStaff(ctx, actorID, dto)

			Expect(err).ToNot(HaveOccurred())
			stored := mockRepo.staff[row.ID]
			Expect(stored.Title).To(Equal("Dr"))
			Expect(stored.Gender).To(Equal("female"))
			Expect(stored.HomeAddress).To(Equal("14 Marina Road, Lagos"))
			Expect(stored.HighestEducation).To(Equal("PhD"))
			Expect(stored.FieldOfStudy).To(Equal("Parasitology"))
		})

		It("opens grant and role rows when requested", func() {
			dto := baseDTO()
			dto.GrantID = &grantID
			dto.WorkTimePercentage = 60
			dto.RoleID = &roleID

			row, err := svc.CreateStaff(ctx, actorID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.grantRows).To(HaveLen(1))
			Expect(mockRepo.grantRows[0].WorkTimePercentage).To(Equal(60))
			Expect(mockRepo.roleRows).To(HaveLen(1))

			account, err := mockRepo.GetAccountByStaffID(row.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.roleRows[0].AccountID).To(Equal(account.ID))
		})

		It("mails an activation code that matches the stored hash", func() {
			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, ev events.Event) error {
				received <- ev
				return nil
			})

			row, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())

			var ev events.Event
			Eventually(received).Should(Receive(&ev))
			created := ev.(*events.AccountCreatedEvent)
			Expect(created.Username).To(Equal("12_1042"))
			Expect(created.OTP).To(HaveLen(staff.OTPLength))

			account, err := mockRepo.GetAccountByStaffID(row.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(*account.OTPHash), []byte(created.OTP))).To(Succeed())
		})

		It("rejects a duplicate email", func() {
			_, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())

			dto := baseDTO()
			dto.EmployeeNumber = "1043"
			_, err = svc.CreateStaff(ctx, actorID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateStaff))
		})

		It("rejects a duplicate employee number", func() {
			_, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())

			dto := baseDTO()
			dto.Email = "other@example.org"
			_, err = svc.CreateStaff(ctx, actorID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateStaff))
		})

		It("rejects an unknown CoE before writing anything", func() {
			dto := baseDTO()
			dto.CoEID = uuid.New()

			_, err := svc.CreateStaff(ctx, actorID, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(mockRepo.staff).To(BeEmpty())
		})

		It("surfaces a failure inside the transaction", func() {
			mockRepo.openPositionError = internal.NewInternalError("db down", nil)

			_, err := svc.CreateStaff(ctx, actorID, baseDTO())

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Terminate", func() {
		var staffID uuid.UUID

		BeforeEach(func() {
			row, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())
			staffID = row.ID
		})

		It("closes assignments and strips the login", func() {
			end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

			err := svc.Terminate(ctx, staffID, staff.TerminateStaffDTO{TerminationDate: end})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.staff[staffID].IsActive).To(BeFalse())
			Expect(mockRepo.staff[staffID].TerminationDate).ToNot(BeNil())
			Expect(mockRepo.closedAllAt).ToNot(BeNil())
			Expect(*mockRepo.closedAllAt).To(Equal(end))

			account, err := mockRepo.GetAccountByStaffID(staffID)
			Expect(err).ToNot(HaveOccurred())
			Expect(account.IsActive).To(BeFalse())
			Expect(account.PasswordHash).To(BeEmpty())
		})

		It("rejects a second termination", func() {
			end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
			Expect(svc.Terminate(ctx, staffID, staff.TerminateStaffDTO{TerminationDate: end})).To(Succeed())

			err := svc.Terminate(ctx, staffID, staff.TerminateStaffDTO{TerminationDate: end})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})

	Describe("UpdateUserInfo", func() {
		var staffID uuid.UUID

		BeforeEach(func() {
			row, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())
			staffID = row.ID
		})

		It("updates personal fields in place", func() {
			phone := "+995 555 123456"

			row, err := svc.UpdateUserInfo(ctx, actorID, staffID, staff.UpdateUserInfoDTO{Phone: &phone})

			Expect(err).ToNot(HaveOccurred())
			Expect(row.Phone).To(Equal(phone))
			Expect(assignments.transferredCoE).To(BeNil())
		})

		It("routes a CoE change through the assignment manager", func() {
			newCoE := uuid.New()

			_, err := svc.UpdateUserInfo(ctx, actorID, staffID, staff.UpdateUserInfoDTO{
				CoEID:     &newCoE,
				StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(assignments.transferredCoE).ToNot(BeNil())
			Expect(*assignments.transferredCoE).To(Equal(newCoE))
		})

		It("requires a start date when reassigning", func() {
			newDept := uuid.New()

			_, err := svc.UpdateUserInfo(ctx, actorID, staffID, staff.UpdateUserInfoDTO{DepartmentID: &newDept})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ResetPassword", func() {
		var staffID uuid.UUID

		BeforeEach(func() {
			row, err := svc.CreateStaff(ctx, actorID, baseDTO())
			Expect(err).ToNot(HaveOccurred())
			staffID = row.ID
		})

		It("stores a fresh code and mails it", func() {
			account, err := mockRepo.GetAccountByStaffID(staffID)
			Expect(err).ToNot(HaveOccurred())
			oldHash := *account.OTPHash

			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypePasswordReset, func(ctx context.Context, ev events.Event) error {
				received <- ev
				return nil
			})

			Expect(svc.ResetPassword(ctx, staffID)).To(Succeed())

			var ev events.Event
			Eventually(received).Should(Receive(&ev))
			reset := ev.(*events.PasswordResetEvent)
			Expect(bcrypt.CompareHashAndPassword([]byte(*account.OTPHash), []byte(reset.OTP))).To(Succeed())
			Expect(*account.OTPHash).ToNot(Equal(oldHash))
		})

		It("fails for staff without an account", func() {
			ghost := &staffModel.Staff{ID: uuid.New(), EmployeeNumber: "9999", Email: "ghost@example.org"}
			mockRepo.staff[ghost.ID] = ghost

			err := svc.ResetPassword(ctx, ghost.ID)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAccountNotFound))
		})
	})
})
