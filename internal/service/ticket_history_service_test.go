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

var _ = Describe("TicketHistoryService", func() {
	var (
		ctx         context.Context
		ticketRepo  *mockTicketRepo
		historyRepo *mockHistoryRepo
		history     *historyStore
		svc         *service.TicketHistoryService
		ticket      *domain.Ticket
		actor       string
	)

	BeforeEach(func() {
		ctx = context.Background()
		actor = uuid.NewString()
		ticket = newTicket(domain.TicketStatusReview, domain.TicketSeverityHigh, uuid.NewString(), uuid.NewString())

		ticketRepo = &mockTicketRepo{}
		newTicketStore(ticket).wire(ticketRepo)
		historyRepo = &mockHistoryRepo{}
		history = &historyStore{}
		history.wire(historyRepo)

		svc = service.NewTicketHistoryService(service.TicketHistoryDependencies{
			HistoryRepo: historyRepo,
			TicketRepo:  ticketRepo,
			Now:         clock,
		})
	})

	Describe("Create", func() {
		It("fills the previous side from the stored ticket", func() {
			res, err := svc.Create(ctx, domain.HistoryChange{
				TicketUUID:   ticket.UUID,
				UserUUID:     actor,
				NewStatus:    domain.TicketStatusDraft,
				NewSeverity:  domain.SeverityPtr(domain.TicketSeverityHigh),
				ChangeReason: domain.StringPtr("resubmitted"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Data.PreviousStatus).To(Equal(domain.TicketStatusReview))
			Expect(*res.Data.PreviousSeverity).To(Equal(domain.TicketSeverityHigh))
			Expect(*res.Data.PreviousTitle).To(Equal(ticket.Title))
			Expect(res.Data.CreatedAt).To(Equal(fixedNow))
			Expect(res.Message).To(Equal("Entity " + res.Data.UUID + " created successfully"))
			Expect(history.all()).To(HaveLen(1))
		})

		It("fails NotFound when the ticket does not exist", func() {
			_, err := svc.Create(ctx, domain.HistoryChange{
				TicketUUID: uuid.NewString(),
				UserUUID:   actor,
				NewStatus:  domain.TicketStatusDraft,
			})

			Expect(err).To(haveKind(apperrors.CodeNotFound))
			Expect(history.all()).To(BeEmpty())
		})

		It("rejects an entry without a valid actor", func() {
			_, err := svc.Create(ctx, domain.HistoryChange{
				TicketUUID: ticket.UUID,
				UserUUID:   "someone",
				NewStatus:  domain.TicketStatusDraft,
			})

			Expect(err).To(haveKind(apperrors.CodeValidationFailed))
			Expect(history.all()).To(BeEmpty())
		})
	})

	Describe("append-only contract", func() {
		It("refuses updates and deletes", func() {
			err := svc.Update(ctx, uuid.NewString(), &domain.TicketHistory{})
			Expect(err).To(haveKind(apperrors.CodeBadRequest))
			Expect(err.Error()).To(Equal("The ticket history cannot be updated, only created"))

			err = svc.Delete(ctx, uuid.NewString())
			Expect(err).To(haveKind(apperrors.CodeBadRequest))
			Expect(err.Error()).To(Equal("The ticket history cannot be deleted, only created"))
		})
	})

	Describe("reads", func() {
		It("defaults the recent activity limit to 10", func() {
			var gotLimit int
			historyRepo.findRecentActivityFn = func(_ context.Context, limit int) ([]domain.TicketHistory, error) {
				gotLimit = limit
				return []domain.TicketHistory{{}, {}}, nil
			}

			res, err := svc.FindRecentActivity(ctx, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(10))
			Expect(res.Message).To(Equal("Retrieved 2 recent ticket history records"))
		})

		It("reports per-user counts", func() {
			historyRepo.findByUserFn = func(_ context.Context, userUUID string) ([]domain.TicketHistory, error) {
				Expect(userUUID).To(Equal(actor))
				return []domain.TicketHistory{{}}, nil
			}

			res, err := svc.FindByUser(ctx, actor)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Message).To(Equal("Found 1 history records for user " + actor))
		})

		It("validates the ticket uuid", func() {
			_, err := svc.FindByTicket(ctx, "nope")
			Expect(err).To(haveKind(apperrors.CodeBadRequest))
		})
	})
})
