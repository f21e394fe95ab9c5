package credit

import (
	"context"
	"testing"
	"time"

	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/studio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCreditRepo struct{ mock.Mock }
type MockMemberRepo struct{ mock.Mock }
type MockStudioRepo struct{ mock.Mock }

func (m *MockCreditRepo) DeductForBooking(ctx context.Context, memberID, bookingID int) (int, error) {
	args := m.Called(ctx, memberID, bookingID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepo) DeductForDropIn(ctx context.Context, memberID, dropInID int) (int, error) {
	args := m.Called(ctx, memberID, dropInID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepo) Adjust(ctx context.Context, memberID, newBalance int) (int, error) {
	args := m.Called(ctx, memberID, newBalance)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditRepo) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockMemberRepo) Create(ctx context.Context, studioID int, name, email string, planType member.PlanType, credits int) (*member.Member, error) {
	args := m.Called(ctx, studioID, name, email, planType, credits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, studioID, id int) (*member.Member, error) {
	args := m.Called(ctx, studioID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) ListByStudio(ctx context.Context, studioID int) ([]member.Member, error) {
	args := m.Called(ctx, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepo) UpdateStatus(ctx context.Context, studioID, id int, status member.Status) error {
	return m.Called(ctx, studioID, id, status).Error(0)
}

func (m *MockStudioRepo) GetByID(ctx context.Context, id int) (*studio.Studio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Studio), args.Error(1)
}

func (m *MockStudioRepo) GetBySubscriptionRef(ctx context.Context, ref string) (*studio.Studio, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Studio), args.Error(1)
}

func (m *MockStudioRepo) UpdatePlanStatus(ctx context.Context, id int, status studio.PlanStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStudioRepo) OpenGracePeriod(ctx context.Context, id int, endsAt time.Time) error {
	return m.Called(ctx, id, endsAt).Error(0)
}

func (m *MockStudioRepo) CancelIfGraceExpired(ctx context.Context, id int, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudioRepo) ListGraceExpired(ctx context.Context, now time.Time) ([]studio.Studio, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.Studio), args.Error(1)
}

func (m *MockStudioRepo) SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error {
	return m.Called(ctx, id, cancel).Error(0)
}

func intPtr(v int) *int { return &v }

func TestService_Deduct_SourceValidation(t *testing.T) {
	tests := []struct {
		name string
		req  DeductRequest
	}{
		{name: "neither source", req: DeductRequest{MemberID: 1}},
		{name: "both sources", req: DeductRequest{MemberID: 1, BookingID: intPtr(1), DropInID: intPtr(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(new(MockCreditRepo), new(MockMemberRepo), new(MockStudioRepo))
			_, err := svc.Deduct(context.Background(), 7, tt.req)
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		})
	}
}

func TestService_Deduct_Booking(t *testing.T) {
	cr := new(MockCreditRepo)
	mr := new(MockMemberRepo)
	sr := new(MockStudioRepo)

	sr.On("GetByID", mock.Anything, 7).Return(&studio.Studio{ID: 7, PlanStatus: studio.StatusActive}, nil)
	mr.On("GetByID", mock.Anything, 7, 1).Return(&member.Member{ID: 1, StudioID: 7, Credits: 5}, nil)
	cr.On("DeductForBooking", mock.Anything, 1, 100).Return(4, nil)

	svc := NewService(cr, mr, sr)
	balance, err := svc.Deduct(context.Background(), 7, DeductRequest{MemberID: 1, BookingID: intPtr(100)})

	assert.NoError(t, err)
	assert.Equal(t, 4, balance)
	cr.AssertExpectations(t)
}

func TestService_Deduct_RepeatRejected(t *testing.T) {
	cr := new(MockCreditRepo)
	mr := new(MockMemberRepo)
	sr := new(MockStudioRepo)

	sr.On("GetByID", mock.Anything, 7).Return(&studio.Studio{ID: 7, PlanStatus: studio.StatusActive}, nil)
	mr.On("GetByID", mock.Anything, 7, 1).Return(&member.Member{ID: 1, StudioID: 7}, nil)
	cr.On("DeductForBooking", mock.Anything, 1, 100).Return(0, apperr.ErrAlreadyDeducted)

	svc := NewService(cr, mr, sr)
	_, err := svc.Deduct(context.Background(), 7, DeductRequest{MemberID: 1, BookingID: intPtr(100)})

	assert.ErrorIs(t, err, apperr.ErrAlreadyDeducted)
}

func TestService_Deduct_CanceledStudioLocked(t *testing.T) {
	cr := new(MockCreditRepo)
	mr := new(MockMemberRepo)
	sr := new(MockStudioRepo)

	sr.On("GetByID", mock.Anything, 7).Return(&studio.Studio{ID: 7, PlanStatus: studio.StatusCanceled}, nil)

	svc := NewService(cr, mr, sr)
	_, err := svc.Deduct(context.Background(), 7, DeductRequest{MemberID: 1, DropInID: intPtr(50)})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	cr.AssertNotCalled(t, "DeductForDropIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Adjust(t *testing.T) {
	tests := []struct {
		name       string
		member     *member.Member
		newBalance int
		wantErr    error
		want       int
	}{
		{
			name:       "pack member adjusted",
			member:     &member.Member{ID: 2, StudioID: 7, PlanType: member.PlanPack, Credits: 3},
			newBalance: 10,
			want:       10,
		},
		{
			name:       "monthly member rejected",
			member:     &member.Member{ID: 4, StudioID: 7, PlanType: member.PlanMonthly, Credits: member.UnlimitedCredits},
			newBalance: 10,
			wantErr:    apperr.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := new(MockCreditRepo)
			mr := new(MockMemberRepo)
			sr := new(MockStudioRepo)

			sr.On("GetByID", mock.Anything, 7).Return(&studio.Studio{ID: 7, PlanStatus: studio.StatusActive}, nil)
			mr.On("GetByID", mock.Anything, 7, tt.member.ID).Return(tt.member, nil)
			cr.On("Adjust", mock.Anything, tt.member.ID, tt.newBalance).Return(tt.newBalance, nil)

			svc := NewService(cr, mr, sr)
			balance, err := svc.Adjust(context.Background(), 7, tt.member.ID, tt.newBalance)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, balance)
			}
		})
	}
}

func TestService_Adjust_NegativeRejected(t *testing.T) {
	svc := NewService(new(MockCreditRepo), new(MockMemberRepo), new(MockStudioRepo))
	_, err := svc.Adjust(context.Background(), 7, 2, -1)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestService_Balance(t *testing.T) {
	cr := new(MockCreditRepo)
	mr := new(MockMemberRepo)
	sr := new(MockStudioRepo)

	mr.On("GetByID", mock.Anything, 7, 1).Return(&member.Member{ID: 1, StudioID: 7, Credits: 4}, nil)
	cr.On("ListTransactions", mock.Anything, 1, 50, 0).Return([]Transaction{
		{ID: 9, MemberID: 1, Delta: -1, BalanceAfter: 4, SourceKind: SourceBooking},
	}, nil)

	svc := NewService(cr, mr, sr)
	m, txs, err := svc.Balance(context.Background(), 7, 1)

	assert.NoError(t, err)
	assert.Equal(t, 4, m.Credits)
	assert.Len(t, txs, 1)
}
