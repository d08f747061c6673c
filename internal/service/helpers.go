package service

import (
	"context"
	"strings"
	"time"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/internal/notify"
	"gatepass-nexus/backend/internal/realtime"
)

var officerRoles = []string{model.RoleAdmin, model.RoleSecurityOfficer}

// requireRole 校验操作者角色
func requireRole(actor dto.Actor, roles ...string) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

func isOfficer(actor dto.Actor) bool {
	return requireRole(actor, officerRoles...) == nil
}

func now() time.Time { return time.Now().UTC() }

func formatTime(t time.Time) string {
	return t.UTC().Format(dto.TimeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

// parseDatePtr 解析可选日期，空值返回 nil
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, ErrDateInvalid
	}
	return &t, nil
}

// trimPtr 去除首尾空白，空串视为未填写
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func strPtr(s string) *string { return &s }

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// emitter 写入成功后的副作用：变更广播与用户通知
type emitter struct {
	events   realtime.Publisher
	notifier notify.Sink
}

func (e emitter) changed(ctx context.Context, table, op, id string) {
	if e.events != nil {
		e.events.Publish(ctx, realtime.Change{Table: table, Op: op, ID: id})
	}
}

func (e emitter) notify(ctx context.Context, userID, title, description, severity string) {
	if e.notifier != nil {
		e.notifier.Notify(ctx, notify.Notice{UserID: userID, Title: title, Description: description, Severity: severity})
	}
}
