package usecase

import (
	"context"
	"errors"

	emaildomain "ghostinbox-backend/internal/email/domain"

	"github.com/google/uuid"
)

// fakeEmailRepo is an in-memory EmailRepository with the same
// conflict-absorbing insert semantics as the gorm implementation.
type fakeEmailRepo struct {
	emails map[string]*emaildomain.Email // keyed by id
	failDB bool
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{emails: make(map[string]*emaildomain.Email)}
}

func (f *fakeEmailRepo) Insert(email *emaildomain.Email) (bool, error) {
	if f.failDB {
		return false, errors.New("db down")
	}
	for _, e := range f.emails {
		if e.UserID == email.UserID && e.MessageID == email.MessageID {
			return false, nil
		}
	}
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	cp := *email
	f.emails[email.ID] = &cp
	return true, nil
}

func (f *fakeEmailRepo) ExistsByMessageID(userID, messageID string) (bool, error) {
	for _, e := range f.emails {
		if e.UserID == userID && e.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmailRepo) FindByID(userID, id string) (*emaildomain.Email, error) {
	e, ok := f.emails[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmailRepo) SaveDraft(userID, id, draft string, status emaildomain.Status) error {
	e, ok := f.emails[id]
	if !ok || e.UserID != userID {
		return nil
	}
	e.DraftReply = draft
	e.Status = status
	return nil
}

type fakeToneRepo struct {
	profiles map[string]*emaildomain.ToneProfile
}

func (f *fakeToneRepo) Find(userID string) (*emaildomain.ToneProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeToneRepo) Upsert(profile *emaildomain.ToneProfile) error {
	if f.profiles == nil {
		f.profiles = make(map[string]*emaildomain.ToneProfile)
	}
	f.profiles[profile.UserID] = profile
	return nil
}

// fakeVerdictModel returns canned verdicts and records call counts.
type fakeVerdictModel struct {
	verdict emaildomain.Verdict
	err     error
	calls   int
}

func (f *fakeVerdictModel) Classify(ctx context.Context, msg emaildomain.InboundMessage) (emaildomain.Verdict, error) {
	f.calls++
	if f.err != nil {
		return emaildomain.Verdict{}, f.err
	}
	return f.verdict, nil
}

type fakeReplyModel struct {
	reply    string
	err      error
	calls    int
	lastTone *emaildomain.ToneProfile
}

func (f *fakeReplyModel) GenerateReply(ctx context.Context, subject, body string, tone *emaildomain.ToneProfile) (string, error) {
	f.calls++
	f.lastTone = tone
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
