package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/observability"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

const noticeCachePrefix = "notices"

// EventBus publishes events and lets in-process consumers subscribe to them.
type EventBus interface {
	events.Publisher
	Subscribe(topic string) (<-chan events.Event, func())
}

// NoticeService lists, publishes and streams notices.
type NoticeService interface {
	List(ctx context.Context, studentID uint, category string) (dto.NoticeListResponse, error)
	Get(ctx context.Context, studentID, noticeID uint) (dto.NoticeResponse, error)
	Publish(ctx context.Context, publishedBy string, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error)
	Stream(ctx context.Context, studentID uint) (<-chan dto.NoticeResponse, error)
}

type noticeService struct {
	notices   repository.NoticeRepository
	students  repository.StudentRepository
	validator *validator.Validate
	bus       EventBus
	cache     jsonCache
	policy    *bluemonday.Policy
	strict    *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNoticeService constructs a NoticeService. A nil bus keeps events in-process.
func NewNoticeService(notices repository.NoticeRepository, students repository.StudentRepository, validate *validator.Validate, bus EventBus, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) NoticeService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	componentLogger := logger.With().Str("component", "notice_service").Logger()
	if bus == nil {
		bus = events.NewBus(nil, nil, "", componentLogger)
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")

	return &noticeService{
		notices:   notices,
		students:  students,
		validator: validate,
		bus:       bus,
		cache:     newJSONCache(cache, "notices", ttl, componentLogger),
		policy:    policy,
		strict:    bluemonday.StrictPolicy(),
		logger:    componentLogger,
		now:       time.Now,
	}
}

func (s *noticeService) List(ctx context.Context, studentID uint, category string) (dto.NoticeListResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return dto.NoticeListResponse{}, err
	}

	category = strings.TrimSpace(category)
	key := noticeCacheKey(student.Department, student.Semester, category)

	var cached dto.NoticeListResponse
	if s.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	notices, err := s.notices.ListForAudience(ctx, repository.NoticeAudience{
		Department: student.Department,
		Semester:   student.Semester,
		Category:   category,
		Now:        s.now(),
	})
	if err != nil {
		return dto.NoticeListResponse{}, err
	}

	sortNotices(notices)

	response := dto.NoticeListResponse{
		Count:   len(notices),
		Data:    make([]dto.NoticeResponse, 0, len(notices)),
		Grouped: map[string][]dto.NoticeResponse{},
	}
	for _, notice := range notices {
		item := s.sanitize(dto.NewNoticeResponse(notice))
		response.Data = append(response.Data, item)
		response.Grouped[item.Category] = append(response.Grouped[item.Category], item)
	}

	s.cache.set(ctx, key, response)
	return response, nil
}

func (s *noticeService) Get(ctx context.Context, studentID, noticeID uint) (dto.NoticeResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return dto.NoticeResponse{}, err
	}

	notice, err := s.notices.GetByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoticeResponse{}, ErrNoticeNotFound
		}
		return dto.NoticeResponse{}, err
	}

	if !notice.IsActive || notice.IsExpired(s.now()) || !notice.TargetsStudent(student.Department, student.Semester) {
		return dto.NoticeResponse{}, ErrNoticeNotFound
	}

	viewed, err := s.notices.IncrementViews(ctx, notice.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoticeResponse{}, ErrNoticeNotFound
		}
		return dto.NoticeResponse{}, err
	}

	return s.sanitize(dto.NewNoticeResponse(viewed)), nil
}

// Publish stores a sanitised notice. A notice without any audience targets all students.
func (s *noticeService) Publish(ctx context.Context, publishedBy string, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoticeResponse{}, err
	}

	title := strings.TrimSpace(s.strict.Sanitize(payload.Title))
	content := strings.TrimSpace(s.policy.Sanitize(payload.Content))
	if title == "" || content == "" {
		return dto.NoticeResponse{}, ErrNoticeEmpty
	}

	var expiry *time.Time
	if payload.ExpiryDate != nil {
		parsed, err := dto.ParseTime(*payload.ExpiryDate)
		if err != nil {
			return dto.NoticeResponse{}, ErrInvalidDate
		}
		expiry = &parsed
	}

	attachments, err := models.EncodeAttachments(dto.ToAttachments(payload.Attachments))
	if err != nil {
		return dto.NoticeResponse{}, err
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	allStudents := payload.AllStudents
	if len(payload.Departments) == 0 && len(payload.Semesters) == 0 && len(payload.Courses) == 0 {
		allStudents = true
	}

	notice := models.Notice{
		Title:       title,
		Content:     content,
		Category:    payload.Category,
		Priority:    priority,
		AllStudents: allStudents,
		Departments: payload.Departments,
		Semesters:   payload.Semesters,
		Courses:     payload.Courses,
		Attachments: attachments,
		PublishedBy: strings.TrimSpace(publishedBy),
		PublishDate: s.now(),
		ExpiryDate:  expiry,
		IsActive:    true,
	}

	if err := s.notices.Create(ctx, &notice); err != nil {
		return dto.NoticeResponse{}, err
	}

	s.cache.invalidate(ctx, noticeCachePrefix+":*")

	response := dto.NewNoticeResponse(notice)
	if err := s.bus.Publish(ctx, events.TopicNoticePublished, response); err != nil {
		s.logger.Warn().Err(err).Uint("notice_id", notice.ID).Msg("failed to publish notice event")
	}

	s.logger.Info().Uint("notice_id", notice.ID).Str("category", notice.Category).Msg("notice published")
	return response, nil
}

// Stream delivers newly published notices targeted at the student until ctx ends.
func (s *noticeService) Stream(ctx context.Context, studentID uint) (<-chan dto.NoticeResponse, error) {
	student, err := loadStudent(ctx, s.students, studentID)
	if err != nil {
		return nil, err
	}

	incoming, cancel := s.bus.Subscribe(events.TopicNoticePublished)
	out := make(chan dto.NoticeResponse, 8)
	observability.NoticeStreamClients().Inc()

	go func() {
		defer close(out)
		defer observability.NoticeStreamClients().Dec()
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-incoming:
				if !ok {
					return
				}

				var notice dto.NoticeResponse
				if err := event.Decode(&notice); err != nil {
					s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("discarding malformed notice event")
					continue
				}
				if !noticeVisibleTo(notice, student, s.now()) {
					continue
				}

				select {
				case out <- s.sanitize(notice):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *noticeService) sanitize(notice dto.NoticeResponse) dto.NoticeResponse {
	notice.Title = s.strict.Sanitize(notice.Title)
	notice.Content = s.policy.Sanitize(notice.Content)
	return notice
}

func noticeVisibleTo(notice dto.NoticeResponse, student models.Student, now time.Time) bool {
	if notice.ExpiryDate != nil && now.After(*notice.ExpiryDate) {
		return false
	}

	model := models.Notice{
		AllStudents: notice.AllStudents,
		Departments: notice.Departments,
		Semesters:   notice.Semesters,
	}
	return model.TargetsStudent(student.Department, student.Semester)
}

// sortNotices orders by priority, most urgent first, then by publish date, newest first.
func sortNotices(notices []models.Notice) {
	sort.SliceStable(notices, func(i, j int) bool {
		ri, rj := models.PriorityRank(notices[i].Priority), models.PriorityRank(notices[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return notices[i].PublishDate.After(notices[j].PublishDate)
	})
}

func noticeCacheKey(department string, semester int, category string) string {
	key := fmt.Sprintf("%s:%s:%d", noticeCachePrefix, strings.ToLower(strings.TrimSpace(department)), semester)
	if category != "" {
		key += ":" + strings.ToLower(category)
	}
	return key
}
