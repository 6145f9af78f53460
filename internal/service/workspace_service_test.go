package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var _ = Describe("WorkspaceService", func() {
	var (
		ctx       context.Context
		repo      *mockWorkspaceRepo
		users     *mockUserRepo
		svc       *service.WorkspaceService
		creator   string
		workspace *domain.Workspace
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockWorkspaceRepo{}
		users = &mockUserRepo{}
		creator = uuid.NewString()

		workspace = domain.NewWorkspace("Support", creator, fixedNow)
		workspace.AddMember(creator)
		repo.findByUUIDFn = func(_ context.Context, id string) (*domain.Workspace, error) {
			if id != workspace.UUID {
				return nil, apperrors.NewNotFound("The entity "+id+" was not found", nil)
			}
			cp := *workspace
			cp.UserUUIDs = append([]string(nil), workspace.UserUUIDs...)
			return &cp, nil
		}
		users.findByUUIDFn = func(_ context.Context, id string) (*domain.User, error) {
			return domain.NewUser("m@example.com", "hash", "Member", domain.UserRoleAssociate, fixedNow), nil
		}

		svc = service.NewWorkspaceService(service.WorkspaceDependencies{
			WorkspaceRepo: repo,
			UserRepo:      users,
			Now:           clock,
		})
	})

	It("adds the creator as the first member", func() {
		var created *domain.Workspace
		repo.createFn = func(_ context.Context, w *domain.Workspace) error {
			created = w
			return nil
		}

		res, err := svc.Create(ctx, " Field Ops ", creator)

		Expect(err).NotTo(HaveOccurred())
		Expect(created.Name).To(Equal("Field Ops"))
		Expect(created.UserUUIDs).To(Equal([]string{creator}))
		Expect(res.Message).To(Equal("Workspace Field Ops created successfully"))
	})

	It("only lets the creator rename", func() {
		_, err := svc.Update(ctx, workspace.UUID, uuid.NewString(), "Renamed")
		Expect(err).To(haveKind(apperrors.CodeForbidden))

		res, err := svc.Update(ctx, workspace.UUID, creator, "Renamed")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Data.Name).To(Equal("Renamed"))
	})

	Describe("membership", func() {
		It("adds a new member once", func() {
			member := uuid.NewString()
			var added []string
			repo.addMemberFn = func(_ context.Context, _ string, userUUID string) error {
				added = append(added, userUUID)
				workspace.AddMember(userUUID)
				return nil
			}

			_, err := svc.AddUser(ctx, workspace.UUID, member)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.AddUser(ctx, workspace.UUID, member)
			Expect(err).To(haveKind(apperrors.CodeConflict))
			Expect(added).To(Equal([]string{member}))
		})

		It("never removes the creator", func() {
			_, err := svc.RemoveUser(ctx, workspace.UUID, creator)
			Expect(err).To(haveKind(apperrors.CodeConflict))
		})

		It("reports a missing member", func() {
			_, err := svc.RemoveUser(ctx, workspace.UUID, uuid.NewString())
			Expect(err).To(haveKind(apperrors.CodeNotFound))
		})

		It("propagates an unknown user", func() {
			users.findByUUIDFn = nil
			_, err := svc.AddUser(ctx, workspace.UUID, uuid.NewString())
			Expect(err).To(haveKind(apperrors.CodeNotFound))
		})
	})
})
