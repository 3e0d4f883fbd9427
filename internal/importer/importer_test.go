package importer_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lihess/lihess-backend/internal"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	"github.com/lihess/lihess-backend/internal/importer"
	"github.com/lihess/lihess-backend/internal/staff"
)

func TestImporter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Importer Suite")
}

type mockImporterRepo struct {
	coe        *orgModel.CoE
	department *orgModel.Department
	position   *orgModel.Position
	grant      *orgModel.Grant
	role       *orgModel.Role
}

func (m *mockImporterRepo) FindCoEByNumber(number string) (*orgModel.CoE, error) {
	if m.coe != nil && m.coe.Number == number {
		return m.coe, nil
	}
	return nil, nil
}

func (m *mockImporterRepo) FindDepartmentByName(name string) (*orgModel.Department, error) {
	if m.department != nil && m.department.Name == name {
		return m.department, nil
	}
	return nil, nil
}

func (m *mockImporterRepo) FindPositionByTitle(title string) (*orgModel.Position, error) {
	if m.position != nil && m.position.Title == title {
		return m.position, nil
	}
	return nil, nil
}

func (m *mockImporterRepo) FindGrantByCode(code string) (*orgModel.Grant, error) {
	if m.grant != nil && m.grant.Code == code {
		return m.grant, nil
	}
	return nil, nil
}

func (m *mockImporterRepo) FindRoleByName(name string) (*orgModel.Role, error) {
	if m.role != nil && m.role.Name == name {
		return m.role, nil
	}
	return nil, nil
}

type mockStaffAPI struct {
	created  []staff.CreateStaffDTO
	failFor  string
	failWith error
}

func (m *mockStaffAPI) CreateStaff(ctx context.Context, actorID uuid.UUID, dto staff.CreateStaffDTO) (*staffModel.Staff, error) {
	if m.failFor != "" && dto.EmployeeNumber == m.failFor {
		return nil, m.failWith
	}
	m.created = append(m.created, dto)
	return &staffModel.Staff{ID: uuid.New(), EmployeeNumber: dto.EmployeeNumber}, nil
}

func buildWorkbook(rows [][]interface{}) *bytes.Reader {
	f := excelize.NewFile()
	_, err := f.NewSheet(importer.SheetName)
	Expect(err).ToNot(HaveOccurred())

	header := []interface{}{
		"employee_number", "first_name", "last_name", "email", "phone",
		"hire_date", "coe_number", "department", "position",
		"grant_code", "work_time_percentage", "role",
	}
	Expect(f.SetSheetRow(importer.SheetName, "A1", &header)).To(Succeed())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		Expect(err).ToNot(HaveOccurred())
		Expect(f.SetSheetRow(importer.SheetName, cell, &row)).To(Succeed())
	}

	var buf bytes.Buffer
	Expect(f.Write(&buf)).To(Succeed())
	return bytes.NewReader(buf.Bytes())
}

var _ = Describe("ImporterService", func() {
	var (
		svc      *importer.Service
		mockRepo *mockImporterRepo
		staffAPI *mockStaffAPI
		ctx      context.Context
		actorID  uuid.UUID
	)

	BeforeEach(func() {
		mockRepo = &mockImporterRepo{
			coe:        &orgModel.CoE{ID: uuid.New(), Name: "Digital Health", Number: "12"},
			department: &orgModel.Department{ID: uuid.New(), Name: "Epidemiology"},
			position:   &orgModel.Position{ID: uuid.New(), Title: "Analyst"},
			grant:      &orgModel.Grant{ID: uuid.New(), Name: "Global Fund", Code: "GF-11"},
			role:       &orgModel.Role{ID: uuid.New(), Name: internal.RoleStaff},
		}
		staffAPI = &mockStaffAPI{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = importer.NewService(mockRepo, staffAPI, lg)
		ctx = context.Background()
		actorID = uuid.New()
	})

	It("imports every valid row", func() {
		wb := buildWorkbook([][]interface{}{
			{"1042", "Nino", "Beridze", "nino@example.org", "", "2025-03-01", "12", "Epidemiology", "Analyst", "", "", ""},
			{"1043", "Levan", "K", "levan@example.org", "", "2025-03-01", "12", "Epidemiology", "Analyst", "GF-11", "60", "staff"},
		})

		result, err := svc.ImportWorkbook(ctx, actorID, wb)

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Imported).To(Equal(2))
		Expect(result.Failed).To(BeZero())
		Expect(staffAPI.created).To(HaveLen(2))
		Expect(staffAPI.created[1].GrantID).ToNot(BeNil())
		Expect(staffAPI.created[1].WorkTimePercentage).To(Equal(60))
		Expect(staffAPI.created[1].RoleID).ToNot(BeNil())
	})

	It("skips bad rows and keeps importing the rest", func() {
		wb := buildWorkbook([][]interface{}{
			{"1042", "Nino", "Beridze", "nino@example.org", "", "2025-03-01", "12", "Nowhere", "Analyst", "", "", ""},
			{"1043", "Levan", "K", "levan@example.org", "", "2025-03-01", "12", "Epidemiology", "Analyst", "", "", ""},
		})

		result, err := svc.ImportWorkbook(ctx, actorID, wb)

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Imported).To(Equal(1))
		Expect(result.Failed).To(Equal(1))
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0].Row).To(Equal(2))
		Expect(result.Errors[0].Message).To(ContainSubstring("Nowhere"))
	})

	It("reports a malformed hire date", func() {
		wb := buildWorkbook([][]interface{}{
			{"1042", "Nino", "Beridze", "nino@example.org", "", "01/03/2025", "12", "Epidemiology", "Analyst", "", "", ""},
		})

		result, err := svc.ImportWorkbook(ctx, actorID, wb)

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Failed).To(Equal(1))
		Expect(result.Errors[0].Message).To(ContainSubstring("hire_date"))
	})

	It("collects staff service rejections per row", func() {
		staffAPI.failFor = "1042"
		staffAPI.failWith = internal.NewConflictError("A staff member with this email already exists", internal.ErrCodeDuplicateStaff)

		wb := buildWorkbook([][]interface{}{
			{"1042", "Nino", "Beridze", "nino@example.org", "", "2025-03-01", "12", "Epidemiology", "Analyst", "", "", ""},
			{"1043", "Levan", "K", "levan@example.org", "", "2025-03-01", "12", "Epidemiology", "Analyst", "", "", ""},
		})

		result, err := svc.ImportWorkbook(ctx, actorID, wb)

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Imported).To(Equal(1))
		Expect(result.Failed).To(Equal(1))
		Expect(result.Errors[0].Message).To(ContainSubstring("already exists"))
	})

	It("rejects a workbook without the staff sheet", func() {
		f := excelize.NewFile()
		var buf bytes.Buffer
		Expect(f.Write(&buf)).To(Succeed())

		_, err := svc.ImportWorkbook(ctx, actorID, bytes.NewReader(buf.Bytes()))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})
})
