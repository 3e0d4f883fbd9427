package assignment_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/core/events"
)

type mockAssignmentRepo struct {
	staff         map[uuid.UUID]*staffModel.Staff
	accounts      map[uuid.UUID]*staffModel.Account
	roles         map[uuid.UUID]*orgModel.Role
	coes          map[uuid.UUID]*orgModel.CoE
	departments   map[uuid.UUID]*orgModel.Department
	positions     map[uuid.UUID]*orgModel.Position
	positionTypes map[uuid.UUID]*orgModel.PositionType
	grants        map[uuid.UUID]*orgModel.Grant
	workgroups    map[uuid.UUID]*workgroupModel.Workgroup

	coeRows       []*assignmentModel.CoEAssignment
	deptRows      []*assignmentModel.DepartmentAssignment
	positionRows  []*assignmentModel.PositionAssignment
	directorRows  []*assignmentModel.DirectorAssignment
	grantRows     []*assignmentModel.GrantAssignment
	roleRows      []*assignmentModel.RoleAssignment
	workgroupRows []*assignmentModel.WorkgroupAssignment

	usernames map[uuid.UUID]string

	updateUsernameError error
	openCoEError        error
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		staff:         make(map[uuid.UUID]*staffModel.Staff),
		accounts:      make(map[uuid.UUID]*staffModel.Account),
		roles:         make(map[uuid.UUID]*orgModel.Role),
		coes:          make(map[uuid.UUID]*orgModel.CoE),
		departments:   make(map[uuid.UUID]*orgModel.Department),
		positions:     make(map[uuid.UUID]*orgModel.Position),
		positionTypes: make(map[uuid.UUID]*orgModel.PositionType),
		grants:        make(map[uuid.UUID]*orgModel.Grant),
		workgroups:    make(map[uuid.UUID]*workgroupModel.Workgroup),
		usernames:     make(map[uuid.UUID]string),
	}
}

func (m *mockAssignmentRepo) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, internal.ErrStaffNotFound
}

func (m *mockAssignmentRepo) GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error) {
	if a, ok := m.accounts[staffID]; ok {
		return a, nil
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockAssignmentRepo) UpdateAccountUsername(accountID uuid.UUID, username string) error {
	if m.updateUsernameError != nil {
		return m.updateUsernameError
	}
	m.usernames[accountID] = username
	return nil
}

func (m *mockAssignmentRepo) GetRole(id uuid.UUID) (*orgModel.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetCoE(id uuid.UUID) (*orgModel.CoE, error) {
	if c, ok := m.coes[id]; ok {
		return c, nil
	}
	return nil, internal.NewNotFoundError("CoE not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetDepartment(id uuid.UUID) (*orgModel.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, internal.NewNotFoundError("Department not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetPosition(id uuid.UUID) (*orgModel.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, internal.NewNotFoundError("Position not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetPositionType(id uuid.UUID) (*orgModel.PositionType, error) {
	if pt, ok := m.positionTypes[id]; ok {
		return pt, nil
	}
	return nil, internal.NewNotFoundError("Position type not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetGrant(id uuid.UUID) (*orgModel.Grant, error) {
	if g, ok := m.grants[id]; ok {
		return g, nil
	}
	return nil, internal.NewNotFoundError("Grant not found", internal.ErrCodeTargetNotFound)
}

func (m *mockAssignmentRepo) GetWorkgroup(id uuid.UUID) (*workgroupModel.Workgroup, error) {
	if w, ok := m.workgroups[id]; ok {
		return w, nil
	}
	return nil, internal.ErrWorkgroupNotFound
}

func (m *mockAssignmentRepo) FindOpenCoE(staffID uuid.UUID) (*assignmentModel.CoEAssignment, error) {
	for _, row := range m.coeRows {
		if row.StaffID == staffID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenCoE(row *assignmentModel.CoEAssignment) error {
	if m.openCoEError != nil {
		return m.openCoEError
	}
	m.coeRows = append(m.coeRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseCoE(staffID uuid.UUID, endDate time.Time) error {
	for _, row := range m.coeRows {
		if row.StaffID == staffID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) FindOpenDepartment(staffID uuid.UUID) (*assignmentModel.DepartmentAssignment, error) {
	for _, row := range m.deptRows {
		if row.StaffID == staffID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) FindOpenHeadOfDepartment(departmentID uuid.UUID) (*assignmentModel.DepartmentAssignment, error) {
	for _, row := range m.deptRows {
		if row.DepartmentID == departmentID && row.IsHod && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenDepartment(row *assignmentModel.DepartmentAssignment) error {
	m.deptRows = append(m.deptRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseDepartment(staffID uuid.UUID, endDate time.Time) error {
	for _, row := range m.deptRows {
		if row.StaffID == staffID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) FindOpenPosition(staffID uuid.UUID) (*assignmentModel.PositionAssignment, error) {
	for _, row := range m.positionRows {
		if row.StaffID == staffID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenPosition(row *assignmentModel.PositionAssignment) error {
	m.positionRows = append(m.positionRows, row)
	return nil
}

func (m *mockAssignmentRepo) ClosePosition(staffID uuid.UUID, endDate time.Time) error {
	for _, row := range m.positionRows {
		if row.StaffID == staffID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) FindOpenDirector(directorateID uuid.UUID) (*assignmentModel.DirectorAssignment, error) {
	for _, row := range m.directorRows {
		if row.DirectorateID == directorateID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenDirector(row *assignmentModel.DirectorAssignment) error {
	m.directorRows = append(m.directorRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseDirector(directorateID uuid.UUID, endDate time.Time) error {
	for _, row := range m.directorRows {
		if row.DirectorateID == directorateID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) ListOpenGrants(staffID uuid.UUID) ([]*assignmentModel.GrantAssignment, error) {
	var out []*assignmentModel.GrantAssignment
	for _, row := range m.grantRows {
		if row.StaffID == staffID && row.EndDate == nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) FindOpenGrant(staffID, grantID uuid.UUID) (*assignmentModel.GrantAssignment, error) {
	for _, row := range m.grantRows {
		if row.StaffID == staffID && row.GrantID == grantID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenGrant(row *assignmentModel.GrantAssignment) error {
	m.grantRows = append(m.grantRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseGrant(staffID, grantID uuid.UUID, endDate time.Time) error {
	for _, row := range m.grantRows {
		if row.StaffID == staffID && row.GrantID == grantID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) ListOpenRoles(accountID uuid.UUID) ([]*assignmentModel.RoleAssignment, error) {
	var out []*assignmentModel.RoleAssignment
	for _, row := range m.roleRows {
		if row.AccountID == accountID && row.EndDate == nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) OpenRole(row *assignmentModel.RoleAssignment) error {
	m.roleRows = append(m.roleRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseRole(accountID, roleID uuid.UUID, endDate time.Time) error {
	for _, row := range m.roleRows {
		if row.AccountID == accountID && row.RoleID == roleID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

func (m *mockAssignmentRepo) FindOpenWorkgroup(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error) {
	for _, row := range m.workgroupRows {
		if row.StaffID == staffID && row.EndDate == nil {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepo) OpenWorkgroup(row *assignmentModel.WorkgroupAssignment) error {
	m.workgroupRows = append(m.workgroupRows, row)
	return nil
}

func (m *mockAssignmentRepo) CloseWorkgroup(staffID uuid.UUID, endDate time.Time) error {
	for _, row := range m.workgroupRows {
		if row.StaffID == staffID && row.EndDate == nil {
			d := endDate
			row.EndDate = &d
		}
	}
	return nil
}

type mockTxManager struct {
	repo *mockAssignmentRepo
}

func (m *mockTxManager) InTx(fn func(assignment.Repository) error) error {
	return fn(m.repo)
}

var _ = Describe("AssignmentService", func() {
	var (
		svc      *assignment.Service
		mockRepo *mockAssignmentRepo
		bus      *events.EventBus
		lg       *slog.Logger
		ctx      context.Context

		actorID uuid.UUID
		staffID uuid.UUID
	)

	addStaff := func(id uuid.UUID, empNumber string) *staffModel.Staff {
		s := &staffModel.Staff{
			ID:             id,
			EmployeeNumber: empNumber,
			FirstName:      "Ada",
			LastName:       "Okafor",
			Email:          empNumber + "@example.org",
			HireDate:       time.Now().AddDate(-1, 0, 0),
			IsActive:       true,
		}
		mockRepo.staff[id] = s
		return s
	}

	addAccount := func(sID uuid.UUID, username string) *staffModel.Account {
		a := &staffModel.Account{
			ID:       uuid.New(),
			StaffID:  sID,
			Username: username,
			IsActive: true,
		}
		mockRepo.accounts[sID] = a
		return a
	}

	BeforeEach(func() {
		mockRepo = newMockAssignmentRepo()
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(lg)
		svc = assignment.NewService(mockRepo, &mockTxManager{repo: mockRepo}, bus, lg)
		ctx = context.Background()

		actorID = uuid.New()
		staffID = uuid.New()
		addStaff(staffID, "1042")
		addAccount(staffID, "07_1042")
	})

	Describe("TransferCoE", func() {
		var oldCoE, newCoE *orgModel.CoE

		BeforeEach(func() {
			oldCoE = &orgModel.CoE{ID: uuid.New(), Name: "Malaria Research", Number: "07"}
			newCoE = &orgModel.CoE{ID: uuid.New(), Name: "Vector Biology", Number: "12"}
			mockRepo.coes[oldCoE.ID] = oldCoE
			mockRepo.coes[newCoE.ID] = newCoE
			mockRepo.coeRows = append(mockRepo.coeRows, &assignmentModel.CoEAssignment{
				ID:      uuid.New(),
				StaffID: staffID,
				CoEID:   oldCoE.ID,
				Window:  assignmentModel.Window{StartDate: time.Now().AddDate(-1, 0, 0), AssignedBy: actorID},
			})
		})

		It("closes the old membership and opens the new one", func() {
			result, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Assignment.CoEID).To(Equal(newCoE.ID))
			Expect(result.Assignment.EndDate).To(BeNil())
			Expect(result.NewUsername).To(Equal("12_1042"))
			Expect(result.NotificationWarning).To(BeEmpty())

			open, _ := mockRepo.FindOpenCoE(staffID)
			Expect(open.CoEID).To(Equal(newCoE.ID))

			closed := 0
			for _, r := range mockRepo.coeRows {
				if r.EndDate != nil {
					closed++
				}
			}
			Expect(closed).To(Equal(1))
		})

		It("rebuilds the username from the new CoE number", func() {
			_, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			account := mockRepo.accounts[staffID]
			Expect(mockRepo.usernames[account.ID]).To(Equal("12_1042"))
		})

		It("publishes a transfer event after commit", func() {
			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeStaffTransferred, func(ctx context.Context, ev events.Event) error {
				received <- ev
				return nil
			})

			_, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Eventually(received).Should(Receive())
		})

		It("keeps the transfer and reports a warning when dispatch fails", func() {
			bus.Subscribe(events.EventTypeStaffTransferred, func(ctx context.Context, ev events.Event) error {
				return errors.New("smtp unreachable")
			})

			result, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.NotificationWarning).ToNot(BeEmpty())

			open, _ := mockRepo.FindOpenCoE(staffID)
			Expect(open.CoEID).To(Equal(newCoE.ID))
		})

		It("rejects a transfer to the CoE the staff is already in", func() {
			_, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     oldCoE.ID,
				StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateAssignment))
		})

		It("keeps the old membership when the transaction fails", func() {
			mockRepo.updateUsernameError = errors.New("username collision")

			_, err := svc.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown staff member", func() {
			_, err := svc.TransferCoE(ctx, actorID, uuid.New(), assignment.TransferCoEDTO{
				CoEID:     newCoE.ID,
				StartDate: time.Now(),
			})

			Expect(err).To(Equal(internal.ErrStaffNotFound))
		})
	})

	Describe("AssignPosition", func() {
		var (
			directorate *orgModel.Directorate
			dept        *orgModel.Department
			managerPos  *orgModel.Position
			officerPos  *orgModel.Position
		)

		BeforeEach(func() {
			directorate = &orgModel.Directorate{ID: uuid.New(), Name: "Science"}
			dept = &orgModel.Department{ID: uuid.New(), Name: "Entomology", DirectorateID: directorate.ID}
			mockRepo.departments[dept.ID] = dept

			managerType := &orgModel.PositionType{ID: uuid.New(), Name: "Lab Manager", Category: assignment.CategoryManager}
			officerType := &orgModel.PositionType{ID: uuid.New(), Name: "Research Officer", Category: assignment.CategoryOfficer}
			mockRepo.positionTypes[managerType.ID] = managerType
			mockRepo.positionTypes[officerType.ID] = officerType

			managerPos = &orgModel.Position{ID: uuid.New(), Title: "Entomology Lab Manager", PositionTypeID: managerType.ID}
			officerPos = &orgModel.Position{ID: uuid.New(), Title: "Field Officer", PositionTypeID: officerType.ID}
			mockRepo.positions[managerPos.ID] = managerPos
			mockRepo.positions[officerPos.ID] = officerPos
		})

		It("assigns an officer position without side effects", func() {
			row, err := svc.AssignPosition(ctx, actorID, staffID, assignment.AssignPositionDTO{
				PositionID: officerPos.ID,
				StartDate:  time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(row.PositionID).To(Equal(officerPos.ID))
			Expect(mockRepo.deptRows).To(BeEmpty())
		})

		It("requires a department before a manager position", func() {
			_, err := svc.AssignPosition(ctx, actorID, staffID, assignment.AssignPositionDTO{
				PositionID: managerPos.ID,
				StartDate:  time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingDepartment))
		})

		It("displaces the sitting head of department", func() {
			otherStaffID := uuid.New()
			addStaff(otherStaffID, "1043")

			mockRepo.deptRows = append(mockRepo.deptRows,
				&assignmentModel.DepartmentAssignment{
					ID: uuid.New(), StaffID: otherStaffID, DepartmentID: dept.ID, IsHod: true,
					Window: assignmentModel.Window{StartDate: time.Now().AddDate(-2, 0, 0), AssignedBy: actorID},
				},
				&assignmentModel.DepartmentAssignment{
					ID: uuid.New(), StaffID: staffID, DepartmentID: dept.ID,
					Window: assignmentModel.Window{StartDate: time.Now().AddDate(-1, 0, 0), AssignedBy: actorID},
				},
			)

			_, err := svc.AssignPosition(ctx, actorID, staffID, assignment.AssignPositionDTO{
				PositionID: managerPos.ID,
				StartDate:  time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			head, _ := mockRepo.FindOpenHeadOfDepartment(dept.ID)
			Expect(head).ToNot(BeNil())
			Expect(head.StaffID).To(Equal(staffID))

			otherOpen, _ := mockRepo.FindOpenDepartment(otherStaffID)
			Expect(otherOpen).ToNot(BeNil())
			Expect(otherOpen.IsHod).To(BeFalse())
		})

		It("rejects reassigning the position already held", func() {
			mockRepo.positionRows = append(mockRepo.positionRows, &assignmentModel.PositionAssignment{
				ID: uuid.New(), StaffID: staffID, PositionID: officerPos.ID,
				Window: assignmentModel.Window{StartDate: time.Now().AddDate(-1, 0, 0), AssignedBy: actorID},
			})

			_, err := svc.AssignPosition(ctx, actorID, staffID, assignment.AssignPositionDTO{
				PositionID: officerPos.ID,
				StartDate:  time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateAssignment))
		})
	})

	Describe("AssignGrant", func() {
		var grant *orgModel.Grant

		BeforeEach(func() {
			grant = &orgModel.Grant{ID: uuid.New(), Name: "Severe Malaria Cohort", Code: "SMC-21"}
			mockRepo.grants[grant.ID] = grant
		})

		It("opens an engagement with a work time share", func() {
			row, err := svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID:            grant.ID,
				WorkTimePercentage: 40,
				StartDate:          time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(row.WorkTimePercentage).To(Equal(40))
		})

		It("allows several open grants per staff member", func() {
			second := &orgModel.Grant{ID: uuid.New(), Name: "Vaccine Trial", Code: "VT-03"}
			mockRepo.grants[second.ID] = second

			_, err := svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: grant.ID, WorkTimePercentage: 60, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: second.ID, WorkTimePercentage: 40, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			open, _ := mockRepo.ListOpenGrants(staffID)
			Expect(open).To(HaveLen(2))
		})

		It("rejects a second open engagement on the same grant", func() {
			_, err := svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: grant.ID, WorkTimePercentage: 60, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: grant.ID, WorkTimePercentage: 20, StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("rejects a work time share above 100", func() {
			_, err := svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: grant.ID, WorkTimePercentage: 120, StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPercentage))
		})

		It("terminates an open engagement", func() {
			_, err := svc.AssignGrant(ctx, actorID, staffID, assignment.AssignGrantDTO{
				GrantID: grant.ID, WorkTimePercentage: 60, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			err = svc.TerminateGrant(ctx, staffID, grant.ID, assignment.TerminateDTO{EndDate: time.Now()})
			Expect(err).ToNot(HaveOccurred())

			open, _ := mockRepo.FindOpenGrant(staffID, grant.ID)
			Expect(open).To(BeNil())
		})

		It("returns not found when terminating a grant never assigned", func() {
			err := svc.TerminateGrant(ctx, staffID, grant.ID, assignment.TerminateDTO{EndDate: time.Now()})
			Expect(err).To(Equal(internal.ErrAssignmentNotFound))
		})
	})

	Describe("AssignRole", func() {
		var approverRole, hrRole, adminRole *orgModel.Role

		BeforeEach(func() {
			approverRole = &orgModel.Role{ID: uuid.New(), Name: "approver"}
			hrRole = &orgModel.Role{ID: uuid.New(), Name: "hr"}
			adminRole = &orgModel.Role{ID: uuid.New(), Name: "admin"}
			mockRepo.roles[approverRole.ID] = approverRole
			mockRepo.roles[hrRole.ID] = hrRole
			mockRepo.roles[adminRole.ID] = adminRole
		})

		It("grants a role to the staff account", func() {
			row, err := svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: approverRole.ID, StartDate: time.Now(),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(row.RoleID).To(Equal(approverRole.ID))
			Expect(row.AccountID).To(Equal(mockRepo.accounts[staffID].ID))
		})

		It("rejects granting a role the account already holds", func() {
			_, err := svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: approverRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: approverRole.ID, StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateAssignment))
		})

		It("caps open roles per account", func() {
			_, err := svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: approverRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: hrRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: adminRole.ID, StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleCapExceeded))
		})

		It("frees a slot when a role is terminated", func() {
			_, err := svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: approverRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: hrRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			err = svc.TerminateRole(ctx, staffID, approverRole.ID, assignment.TerminateDTO{EndDate: time.Now()})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignRole(ctx, actorID, staffID, assignment.AssignRoleDTO{
				RoleID: adminRole.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("AssignWorkgroup", func() {
		var wg *workgroupModel.Workgroup

		BeforeEach(func() {
			wg = &workgroupModel.Workgroup{ID: uuid.New(), Name: "Clinical Trials", CreatedBy: actorID}
			mockRepo.workgroups[wg.ID] = wg
		})

		It("moves the staff member between workgroups", func() {
			other := &workgroupModel.Workgroup{ID: uuid.New(), Name: "Data Management", CreatedBy: actorID}
			mockRepo.workgroups[other.ID] = other

			_, err := svc.AssignWorkgroup(ctx, actorID, staffID, assignment.AssignWorkgroupDTO{
				WorkgroupID: wg.ID, StartDate: time.Now().AddDate(0, -6, 0),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignWorkgroup(ctx, actorID, staffID, assignment.AssignWorkgroupDTO{
				WorkgroupID: other.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			open, _ := mockRepo.FindOpenWorkgroup(staffID)
			Expect(open.WorkgroupID).To(Equal(other.ID))
		})

		It("rejects rejoining the current workgroup", func() {
			_, err := svc.AssignWorkgroup(ctx, actorID, staffID, assignment.AssignWorkgroupDTO{
				WorkgroupID: wg.ID, StartDate: time.Now(),
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.AssignWorkgroup(ctx, actorID, staffID, assignment.AssignWorkgroupDTO{
				WorkgroupID: wg.ID, StartDate: time.Now(),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})
})
