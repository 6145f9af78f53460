package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const testBcryptCost = 4

var _ = Describe("UserService", func() {
	var (
		ctx    context.Context
		repo   *mockUserRepo
		tokens *auth.TokenManager
		svc    *service.UserService
		stored *domain.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockUserRepo{}
		tokens = auth.NewTokenManager("test-secret", 15)

		hash, err := auth.HashPassword("correct horse", testBcryptCost)
		Expect(err).NotTo(HaveOccurred())
		stored = domain.NewUser("ada@example.com", hash, "Ada", domain.UserRoleManager, fixedNow)

		svc = service.NewUserService(service.UserDependencies{
			UserRepo:   repo,
			Tokens:     tokens,
			BcryptCost: testBcryptCost,
			Now:        clock,
		})
	})

	Describe("Register", func() {
		It("hashes the password and defaults the role", func() {
			var created *domain.User
			repo.createFn = func(_ context.Context, u *domain.User) error {
				created = u
				return nil
			}

			res, err := svc.Register(ctx, service.RegisterUserInput{
				Email:    "  Grace@Example.com ",
				Password: "s3cret-pass",
				Name:     "Grace",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Message).To(Equal("User created successfully."))
			Expect(created).NotTo(BeNil())
			Expect(created.Email).To(Equal("grace@example.com"))
			Expect(created.Role).To(Equal(domain.UserRoleAssociate))
			Expect(created.PasswordHash).NotTo(Equal("s3cret-pass"))
			Expect(auth.ComparePassword(created.PasswordHash, "s3cret-pass")).To(Succeed())
		})

		It("conflicts on a registered email", func() {
			repo.findByEmailFn = func(context.Context, string) (*domain.User, error) {
				return stored, nil
			}

			_, err := svc.Register(ctx, service.RegisterUserInput{Email: "ada@example.com", Password: "x", Name: "Ada"})

			Expect(err).To(haveKind(apperrors.CodeConflict))
			Expect(err.Error()).To(Equal("There is already an user registered with the e-mail ada@example.com"))
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			repo.findByEmailFn = func(_ context.Context, email string) (*domain.User, error) {
				if email == stored.Email {
					return stored, nil
				}
				return nil, apperrors.NewNotFound("The user "+email+" was not found", nil)
			}
		})

		It("issues a token carrying the user's role", func() {
			res, err := svc.Authenticate(ctx, "ADA@example.com", "correct horse")

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Message).To(Equal("User authenticated successfully."))
			claims, err := tokens.ParseToken(res.Data.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserUUID).To(Equal(stored.UUID))
			Expect(claims.Role).To(Equal(domain.UserRoleManager))
		})

		DescribeTable("hides which credential was wrong",
			func(email, password string) {
				_, err := svc.Authenticate(ctx, email, password)
				Expect(err).To(haveKind(apperrors.CodeUnauthorized))
				Expect(err.Error()).To(Equal("Invalid email or password."))
			},
			Entry("unknown email", "nobody@example.com", "correct horse"),
			Entry("wrong password", "ada@example.com", "battery staple"),
		)
	})

	Describe("ValidateUserPermissions", func() {
		BeforeEach(func() {
			repo.findByUUIDFn = func(context.Context, string) (*domain.User, error) {
				return stored, nil
			}
		})

		It("applies the role hierarchy", func() {
			res, err := svc.ValidateUserPermissions(ctx, stored.UUID, domain.UserRoleAssociate)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Data).To(BeTrue())

			res, err = svc.ValidateUserPermissions(ctx, stored.UUID, domain.UserRoleAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Data).To(BeFalse())
			Expect(res.Message).To(Equal("User does not have required permissions."))
		})
	})

	Describe("ChangePassword", func() {
		BeforeEach(func() {
			repo.findByUUIDFn = func(context.Context, string) (*domain.User, error) {
				return stored, nil
			}
		})

		It("requires the current password", func() {
			updated := false
			repo.updateFn = func(context.Context, *domain.User) error {
				updated = true
				return nil
			}

			_, err := svc.ChangePassword(ctx, stored.UUID, "guess", "new-password")

			Expect(err).To(haveKind(apperrors.CodeUnauthorized))
			Expect(err.Error()).To(Equal("Password is wrong"))
			Expect(updated).To(BeFalse())
		})

		It("stores a new hash", func() {
			res, err := svc.ChangePassword(ctx, stored.UUID, "correct horse", "new-password")

			Expect(err).NotTo(HaveOccurred())
			Expect(auth.ComparePassword(res.Data.PasswordHash, "new-password")).To(Succeed())
			Expect(res.Data.UpdatedAt).To(Equal(fixedNow))
		})

		It("validates the user uuid", func() {
			_, err := svc.ChangePassword(ctx, "x", "a", "b")
			Expect(err).To(haveKind(apperrors.CodeBadRequest))
		})
	})

	It("looks users up by uuid", func() {
		id := uuid.NewString()
		_, err := svc.GetByUUID(ctx, id)
		Expect(err).To(haveKind(apperrors.CodeNotFound))
	})
})
