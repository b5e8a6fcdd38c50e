// Package routine owns a user's study day: it loads or generates today's slots
// and applies completion, custom slots and time edits, persisting every change
// to the local store and pushing the profile to the remote store.
package routine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studyday/internal/catalog"
	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/scheduler"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/utils"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrMissingTime     = errors.New("a start time is required")
	ErrMissingSubject  = errors.New("a subject is required")
	ErrProfileNotFound = errors.New("profile not found, run 'studyday init' first")
	ErrNotLoaded       = errors.New("routine not loaded")
	ErrSlotCompleted   = errors.New("slot already completed")
)

// LocalStore is the keyed day store plus the local profile cache.
type LocalStore interface {
	storage.DayStore
	storage.ProfileStore
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Service struct {
	local  LocalStore
	remote storage.ProfileStore
	sched  *scheduler.Scheduler
	now    func() time.Time
	loc    *time.Location

	user   models.User
	date   time.Time
	slots  []models.RoutineSlot
	loaded bool
}

// NewService wires a session. remote may be nil, in which case profile pushes
// are skipped.
func NewService(local LocalStore, remote storage.ProfileStore, sched *scheduler.Scheduler, opts ...Option) *Service {
	s := &Service{
		local:  local,
		remote: remote,
		sched:  sched,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = scheduler.New()
	}
	return s
}

// NewProfile returns a fresh profile with a new id and the default routine.
func NewProfile(name, classLevel, stream string) models.User {
	routine := models.DefaultStudyRoutine()
	if classLevel == "" {
		classLevel = constants.DefaultClassLevel
	}
	return models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		ClassLevel:   classLevel,
		Stream:       string(catalog.ParseStream(stream)),
		StudyRoutine: &routine,
	}
}

func (s *Service) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Load reads the profile and today's slots, generating the day when it has not
// been stored yet. A profile missing locally is fetched from the remote store.
func (s *Service) Load(userID string) error {
	if userID == "" {
		return ErrProfileNotFound
	}
	user, err := s.local.GetUser(userID)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = s.fetchRemote(userID)
	}
	if err != nil {
		return err
	}

	s.user = user
	s.loaded = true
	return s.loadDay(s.today())
}

func (s *Service) fetchRemote(userID string) (models.User, error) {
	if s.remote == nil {
		return models.User{}, fmt.Errorf("%s: %w", userID, ErrProfileNotFound)
	}
	user, err := s.remote.GetUser(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("%s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch profile from remote: %w", err)
	}
	if err := s.local.SaveUser(user); err != nil {
		return models.User{}, fmt.Errorf("failed to cache profile: %w", err)
	}
	logger.Info("Fetched profile from remote", "user", userID)
	return user, nil
}

func (s *Service) loadDay(date time.Time) error {
	rec, created, err := s.sched.LoadOrCreate(s.local, &s.user, date)
	if err != nil {
		return err
	}
	s.date = date
	s.slots = rec.Slots
	logger.SetSession(s.user.ID, rec.Date)
	if created {
		// rollover and catch-up consumption changed the routine
		return s.saveProfile()
	}
	return nil
}

// Refresh switches to the new day when the date has changed since Load. It
// reports whether a switch happened.
func (s *Service) Refresh() (bool, error) {
	if !s.loaded {
		return false, ErrNotLoaded
	}
	today := s.today()
	if utils.DateString(today) == utils.DateString(s.date) {
		return false, nil
	}
	return true, s.loadDay(today)
}

func (s *Service) User() models.User {
	return s.user
}

// Date returns the loaded day as YYYY-MM-DD.
func (s *Service) Date() string {
	return utils.DateString(s.date)
}

func (s *Service) Weekday() time.Weekday {
	return s.date.Weekday()
}

// IsCatchUpDay reports whether the loaded day is a Sunday, when only missed
// slots are scheduled.
func (s *Service) IsCatchUpDay() bool {
	return s.Weekday() == time.Sunday
}

// Heading is the display title for the loaded day.
func (s *Service) Heading() string {
	if s.IsCatchUpDay() {
		return constants.CatchUpTitle
	}
	return constants.RoutineTitle
}

// EmptyMessage is shown when the loaded day has no slots.
func (s *Service) EmptyMessage() string {
	if s.IsCatchUpDay() {
		return constants.NoBacklogMessage
	}
	return constants.EmptyDayMessage
}

// Slots returns a copy of the loaded day's slots in display order.
func (s *Service) Slots() []models.RoutineSlot {
	return models.CloneSlots(s.slots)
}

// Slot looks up one slot of the loaded day.
func (s *Service) Slot(id string) (models.RoutineSlot, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.RoutineSlot{}, fmt.Errorf("%s: %w", id, ErrSlotNotFound)
	}
	return s.slots[i], nil
}

func (s *Service) indexOf(id string) int {
	for i := range s.slots {
		if s.slots[i].ID == id {
			return i
		}
	}
	return -1
}

// Complete marks a slot done and advances the streak on the first completion
// of the day. Completing an already completed slot keeps its first timestamp.
func (s *Service) Complete(slotID string) (models.RoutineSlot, error) {
	if !s.loaded {
		return models.RoutineSlot{}, ErrNotLoaded
	}
	i := s.indexOf(slotID)
	if i < 0 {
		return models.RoutineSlot{}, fmt.Errorf("%s: %w", slotID, ErrSlotNotFound)
	}

	if !s.slots[i].IsCompleted {
		ts := s.now().UTC().Format(time.RFC3339)
		s.slots[i].IsCompleted = true
		s.slots[i].CompletedAt = &ts
	}
	if err := s.saveDay(); err != nil {
		return models.RoutineSlot{}, err
	}

	today := s.Date()
	routine := s.user.Routine()
	if routine.LastStudyDate != today {
		routine.Streak++
		routine.LastStudyDate = today
		if routine.Streak%constants.BonusHolidayEvery == 0 {
			routine.BonusHolidays++
			logger.Info("Bonus holiday earned", "user", s.user.ID, "streak", routine.Streak)
		}
	}
	st := ComputeStats(s.slots, routine)
	routine.DailyStats[today] = models.DailyStat{
		Completed:      st.Completed,
		Total:          st.Total,
		MinutesStudied: st.MinutesStudied,
	}

	if err := s.saveProfile(); err != nil {
		return models.RoutineSlot{}, err
	}
	return s.slots[i], nil
}

// AddCustomSlot inserts a 60 minute LEARN slot for subjectID at start.
func (s *Service) AddCustomSlot(start, subjectID string) (models.RoutineSlot, error) {
	if !s.loaded {
		return models.RoutineSlot{}, ErrNotLoaded
	}
	start = strings.TrimSpace(start)
	subjectID = strings.TrimSpace(subjectID)
	if start == "" {
		return models.RoutineSlot{}, ErrMissingTime
	}
	if subjectID == "" {
		return models.RoutineSlot{}, ErrMissingSubject
	}

	slot := models.RoutineSlot{
		ID:              s.customID(),
		StartTime:       start,
		DurationMinutes: constants.DefaultSlotMinutes,
		SubjectID:       subjectID,
		Topic:           constants.CustomSlotTopic,
		ActivityType:    models.ActivityLearn,
		IsCustom:        true,
	}
	s.slots = append(s.slots, slot)
	sortSlots(s.slots)
	if err := s.saveDay(); err != nil {
		return models.RoutineSlot{}, err
	}

	routine := s.user.Routine()
	routine.CustomSlots = append(routine.CustomSlots, slot)
	if err := s.saveProfile(); err != nil {
		return models.RoutineSlot{}, err
	}
	return slot, nil
}

// customID returns custom-<unix millis>, bumped past any id already in use.
func (s *Service) customID() string {
	ms := s.now().UnixMilli()
	for {
		id := constants.CustomSlotIDPrefix + strconv.FormatInt(ms, 10)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// EditTime replaces a slot's start time. An empty value leaves the slot alone;
// other values are stored as given.
func (s *Service) EditTime(slotID, start string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	i := s.indexOf(slotID)
	if i < 0 {
		return fmt.Errorf("%s: %w", slotID, ErrSlotNotFound)
	}
	start = strings.TrimSpace(start)
	if start == "" {
		return nil
	}

	s.slots[i].StartTime = start
	sortSlots(s.slots)
	return s.saveDay()
}

// ProfileUpdate holds the profile fields to change; nil fields are kept.
type ProfileUpdate struct {
	Name       *string
	ClassLevel *string
	Stream     *string
}

// UpdateProfile changes profile fields. Today's stored slots are kept; the new
// class and stream apply from the next generated day.
func (s *Service) UpdateProfile(u ProfileUpdate) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if u.Name != nil {
		s.user.Name = strings.TrimSpace(*u.Name)
	}
	if u.ClassLevel != nil {
		s.user.ClassLevel = strings.TrimSpace(*u.ClassLevel)
	}
	if u.Stream != nil {
		s.user.Stream = string(catalog.ParseStream(*u.Stream))
	}
	return s.saveProfile()
}

// Stats summarises the loaded day.
func (s *Service) Stats() Stats {
	return ComputeStats(s.slots, s.user.StudyRoutine)
}

// AddableSubjects lists the subject choices for a custom slot.
func (s *Service) AddableSubjects() []models.Subject {
	return catalog.AddableSubjects(s.user.EffectiveClassLevel(), s.user.Stream)
}

// SubjectName resolves a subject id for display.
func (s *Service) SubjectName(id string) string {
	return catalog.SubjectName(s.user.EffectiveClassLevel(), id)
}

func sortSlots(slots []models.RoutineSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
}

func (s *Service) saveDay() error {
	rec := models.DayRecord{
		Version:   constants.DayRecordVersion,
		UserID:    s.user.ID,
		Date:      s.Date(),
		Slots:     s.slots,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.local.SaveDay(rec); err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}
	return nil
}

// saveProfile writes the profile locally and pushes it to the remote store.
// Remote failures are logged; the local copy is authoritative for the session.
func (s *Service) saveProfile() error {
	s.user.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.local.SaveUser(s.user); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if s.remote == nil {
		return nil
	}
	if err := s.remote.SaveUser(s.user); err != nil {
		logger.Warn("Failed to push profile to remote", "user", s.user.ID, "error", err)
	}
	return nil
}

// Push sends the profile to the remote store and reports any failure.
func (s *Service) Push() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.remote == nil {
		return errors.New("no remote store configured")
	}
	return s.remote.SaveUser(s.user)
}
