package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/domain/dto"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"

	messagebrokerdto "rider/internal/rider-service/core/domain/message_broker_dto"

	"github.com/google/uuid"
)

const publishTimeout = 3 * time.Second

type FormService struct {
	mylog       mylogger.Logger
	repo        ports.ISessionRepo
	suggestions ports.ISuggestionService
	composer    ports.IComposer
	publisher   ports.IRideRequestPublisher
	now         func() time.Time
}

func NewFormService(
	log mylogger.Logger,
	repo ports.ISessionRepo,
	suggestions ports.ISuggestionService,
	composer ports.IComposer,
	publisher ports.IRideRequestPublisher,
) *FormService {
	return &FormService{
		mylog:       log,
		repo:        repo,
		suggestions: suggestions,
		composer:    composer,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (fs *FormService) Load(ctx context.Context, sid string) (model.Session, error) {
	sess, err := fs.repo.Get(ctx, sid)
	if errors.Is(err, myerrors.ErrSessionNotFound) {
		return model.NewSession(sid, fs.now()), nil
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("load session: %w", err)
	}
	sess.Normalize()
	return sess, nil
}

// UpdateLocation stores text as the field's value and refreshes its
// suggestions. A result overtaken by a later update or a selection comes
// back with Stale set and leaves the stored list alone.
func (fs *FormService) UpdateLocation(ctx context.Context, sid string, field model.Field, text string) (dto.SuggestionResult, error) {
	res, err := fs.BeginLocationUpdate(ctx, sid, field, text)
	if err != nil {
		return dto.SuggestionResult{}, err
	}
	return fs.FinishLocationUpdate(ctx, sid, res, text)
}

// BeginLocationUpdate stores text and issues the field's next sequence
// number. Callers that fetch asynchronously must call it in keystroke order.
func (fs *FormService) BeginLocationUpdate(ctx context.Context, sid string, field model.Field, text string) (dto.SuggestionResult, error) {
	if _, ok := model.ParseField(string(field)); !ok {
		return dto.SuggestionResult{}, fmt.Errorf("%q: %w", field, myerrors.ErrUnknownField)
	}

	res := dto.SuggestionResult{Field: field, Suggestions: model.SuggestionList{}}
	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		s.Form.SetLocation(field, text)
		s.Seq[field]++
		res.Seq = s.Seq[field]
		if text == "" {
			s.Suggestions[field] = model.SuggestionList{}
		}
		return nil
	})
	if err != nil {
		return dto.SuggestionResult{}, err
	}
	return res, nil
}

// FinishLocationUpdate fetches suggestions for text with the lock released
// and applies them only if res.Seq is still the field's latest.
func (fs *FormService) FinishLocationUpdate(ctx context.Context, sid string, res dto.SuggestionResult, text string) (dto.SuggestionResult, error) {
	if text == "" {
		return res, nil
	}

	res.Suggestions = fs.suggestions.FetchSuggestions(ctx, text)

	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		res.Stale = s.Seq[res.Field] != res.Seq
		if res.Stale {
			return errSkipSave
		}
		s.Suggestions[res.Field] = append(model.SuggestionList{}, res.Suggestions...)
		return nil
	})
	if err != nil {
		return dto.SuggestionResult{}, err
	}

	if res.Stale {
		fs.mylog.Action("UpdateLocation").Debug("dropped stale suggestions", "field", res.Field, "seq", res.Seq)
	}
	return res, nil
}

// SelectSuggestion overwrites the field with the label and clears its list
// in one step. In-flight fetches for the field become stale.
func (fs *FormService) SelectSuggestion(ctx context.Context, sid string, field model.Field, sug model.Suggestion) (model.Session, error) {
	if _, ok := model.ParseField(string(field)); !ok {
		return model.Session{}, fmt.Errorf("%q: %w", field, myerrors.ErrUnknownField)
	}

	var out model.Session
	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		s.Form.SetLocation(field, sug.Label)
		s.Suggestions[field] = model.SuggestionList{}
		s.Seq[field]++
		out = s.Clone()
		return nil
	})
	return out, err
}

func (fs *FormService) SetSchedule(ctx context.Context, sid, raw string) (model.Session, error) {
	var out model.Session
	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		s.Form.ScheduledAt = raw
		out = s.Clone()
		return nil
	})
	return out, err
}

func (fs *FormService) SetVehicleType(ctx context.Context, sid, raw string) (model.Session, error) {
	v, ok := model.ParseVehicleType(raw)
	if !ok {
		return model.Session{}, fmt.Errorf("%q: %w", raw, myerrors.ErrUnknownVehicleType)
	}

	var out model.Session
	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		s.Form.VehicleType = v
		out = s.Clone()
		return nil
	})
	return out, err
}

// Apply writes the fields of a plain form post. Location fields set this
// way do not trigger a fetch; their lists are cleared like on selection.
func (fs *FormService) Apply(ctx context.Context, sid string, patch dto.FormPatch) (model.Session, error) {
	var vehicle model.VehicleType
	if patch.VehicleType != nil {
		v, ok := model.ParseVehicleType(*patch.VehicleType)
		if !ok {
			return model.Session{}, fmt.Errorf("%q: %w", *patch.VehicleType, myerrors.ErrUnknownVehicleType)
		}
		vehicle = v
	}

	var out model.Session
	err := fs.mutate(ctx, sid, func(s *model.Session) error {
		setLocation := func(field model.Field, v *string) {
			if v == nil || *v == s.Form.Location(field) {
				return
			}
			s.Form.SetLocation(field, *v)
			s.Suggestions[field] = model.SuggestionList{}
			s.Seq[field]++
		}
		setLocation(model.FieldStart, patch.Start)
		setLocation(model.FieldDestination, patch.Destination)
		if patch.ScheduledAt != nil {
			s.Form.ScheduledAt = *patch.ScheduledAt
		}
		if vehicle != "" {
			s.Form.VehicleType = vehicle
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

// Submit composes the deep link from the stored form. Publishing the
// ride.requested event is best effort.
func (fs *FormService) Submit(ctx context.Context, sid string, locale model.Locale) (string, error) {
	log := fs.mylog.Action("Submit")

	sess, err := fs.Load(ctx, sid)
	if err != nil {
		return "", err
	}

	link, err := fs.composer.Compose(sess.Form, locale)
	if err != nil {
		log.Info("submission rejected", "reason", err.Error())
		return "", err
	}

	if fs.publisher != nil {
		msg := messagebrokerdto.RideRequested{
			RequestID:   uuid.NewString(),
			SessionID:   sid,
			Locale:      string(locale),
			VehicleType: string(sess.Form.VehicleType),
			Start:       sess.Form.Start,
			Destination: sess.Form.Destination,
			ScheduledAt: sess.Form.ScheduledAt,
			Link:        link,
			RequestedAt: fs.now().UTC(),
		}
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := fs.publisher.PublishRideRequested(pubCtx, msg); err != nil {
			log.Warn("ride request not published", "request_id", msg.RequestID, "error", err.Error())
		}
	}

	log.Info("ride request composed", "vehicle", sess.Form.VehicleType, "locale", locale)
	return link, nil
}

var errSkipSave = errors.New("skip save")

// mutate applies fn to the stored session through the repo's atomic
// update, so concurrent writers on any instance never lose each other's
// changes. fn may run more than once and must only touch its argument and
// values it fully overwrites.
func (fs *FormService) mutate(ctx context.Context, sid string, fn func(*model.Session) error) error {
	err := fs.repo.Update(ctx, sid, func(sess *model.Session, found bool) error {
		if !found {
			*sess = model.NewSession(sid, fs.now())
		}
		sess.Normalize()
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = fs.now()
		return nil
	})
	if errors.Is(err, errSkipSave) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}
