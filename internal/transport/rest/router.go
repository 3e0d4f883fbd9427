package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	"github.com/lihess/lihess-backend/internal/auth"
	"github.com/lihess/lihess-backend/internal/importer"
	"github.com/lihess/lihess-backend/internal/leave"
	"github.com/lihess/lihess-backend/internal/notification"
	"github.com/lihess/lihess-backend/internal/org"
	"github.com/lihess/lihess-backend/internal/staff"
	"github.com/lihess/lihess-backend/internal/transport/middleware"
	"github.com/lihess/lihess-backend/internal/transport/swagger"
	"github.com/lihess/lihess-backend/internal/workgroup"
)

type Handlers struct {
	Auth         *auth.Handler
	Guard        *auth.RoleGuard
	Staff        *staff.Handler
	Assignment   *assignment.Handler
	Workgroup    *workgroup.Handler
	Leave        *leave.Handler
	Notification *notification.Handler
	Importer     *importer.Handler
	Org          *org.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/activate", h.Auth.Activate)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.ActorContext)

			pr.Route("/staff", func(sr chi.Router) {
				sr.Get("/{staffID}", h.Staff.GetStaff)
				sr.Get("/{staffID}/assignments", h.Assignment.GetStaffAssignments)

				// HR administers the workforce
				sr.Group(func(hr chi.Router) {
					hr.Use(h.Guard.RequireHR())

					hr.Post("/", h.Staff.CreateStaff)
					hr.Get("/", h.Staff.ListStaff)
					hr.Post("/import", h.Importer.ImportStaff)
					hr.Patch("/{staffID}", h.Staff.UpdateUserInfo)
					hr.Post("/{staffID}/terminate", h.Staff.Terminate)
					hr.Post("/{staffID}/reset-password", h.Staff.ResetPassword)

					hr.Post("/{staffID}/coe", h.Assignment.TransferCoE)
					hr.Post("/{staffID}/department", h.Assignment.AssignDepartment)
					hr.Post("/{staffID}/position", h.Assignment.AssignPosition)
					hr.Post("/{staffID}/grants", h.Assignment.AssignGrant)
					hr.Post("/{staffID}/grants/{grantID}/terminate", h.Assignment.TerminateGrant)
					hr.Post("/{staffID}/roles", h.Assignment.AssignRole)
					hr.Post("/{staffID}/roles/{roleID}/terminate", h.Assignment.TerminateRole)
					hr.Post("/{staffID}/workgroup", h.Assignment.AssignWorkgroup)
					hr.Get("/{staffID}/leaves", h.Leave.ListStaffLeaves)
				})
			})

			pr.Route("/dictionaries", func(dr chi.Router) {
				dr.Get("/coes", h.Org.ListCoEs)
				dr.Get("/directorates", h.Org.ListDirectorates)
				dr.Get("/departments", h.Org.ListDepartments)
				dr.Get("/position-types", h.Org.ListPositionTypes)
				dr.Get("/positions", h.Org.ListPositions)
				dr.Get("/grants", h.Org.ListGrants)
				dr.Get("/roles", h.Org.ListRoles)
				dr.Get("/leave-types", h.Org.ListLeaveTypes)
				dr.Get("/holidays", h.Org.ListHolidays)

				dr.Group(func(hr chi.Router) {
					hr.Use(h.Guard.RequireHR())

					hr.Post("/coes", h.Org.CreateCoE)
					hr.Post("/directorates", h.Org.CreateDirectorate)
					hr.Post("/departments", h.Org.CreateDepartment)
					hr.Post("/positions", h.Org.CreatePosition)
					hr.Post("/grants", h.Org.CreateGrant)
					hr.Post("/leave-types", h.Org.CreateLeaveType)
					hr.Post("/leave-policies", h.Org.CreateLeavePolicy)
					hr.Post("/holidays", h.Org.CreateHoliday)
				})
			})

			pr.Route("/workgroups", func(wr chi.Router) {
				wr.Get("/", h.Workgroup.ListWorkgroups)
				wr.Get("/{workgroupID}", h.Workgroup.GetWorkgroup)

				wr.Group(func(hr chi.Router) {
					hr.Use(h.Guard.RequireHR())

					hr.Post("/", h.Workgroup.CreateWorkgroup)
					hr.Post("/{workgroupID}/approvers", h.Workgroup.AddApprover)
					hr.Post("/{workgroupID}/approvers/{staffID}/remove", h.Workgroup.RemoveApprover)
					hr.Post("/{workgroupID}/members", h.Workgroup.AddMember)
					hr.Post("/{workgroupID}/members/{staffID}/remove", h.Workgroup.RemoveMember)
				})
			})

			pr.Route("/leaves", func(lr chi.Router) {
				lr.Post("/", h.Leave.Apply)
				lr.Get("/my", h.Leave.ListMyLeaves)
				lr.Get("/balances", h.Leave.MyBalances)
				lr.Post("/{leaveID}/cancel", h.Leave.Cancel)

				lr.Group(func(ar chi.Router) {
					ar.Use(h.Guard.Require(internal.RoleApprover, internal.RoleHR))

					ar.Get("/pending", h.Leave.ListPendingApprovals)
					ar.Post("/{leaveID}/approve", h.Leave.Approve)
					ar.Post("/{leaveID}/decline", h.Leave.Decline)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.List)
				nr.Post("/{notificationID}/read", h.Notification.MarkRead)
			})
		})
	})
}
