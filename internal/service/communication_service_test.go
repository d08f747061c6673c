package service

import (
	"context"
	"errors"
	"testing"

	"gatepass-nexus/backend/internal/dto"
	"gatepass-nexus/backend/internal/model"
)

func setupTestCommunicationService() (CommunicationService, *testEnv, *recordingSink) {
	env := newTestEnv()
	sink := &recordingSink{}
	return NewCommunicationService(env.repo, env.events, sink, env.logger), env, sink
}

func sendTestMessage(t *testing.T, svc CommunicationService, req dto.SendCommunicationRequest) *dto.CommunicationResponse {
	t.Helper()
	c, err := svc.Send(context.Background(), testAdmin, &req)
	if err != nil {
		t.Fatalf("Send 应成功: %v", err)
	}
	return c
}

func TestCommunicationService_Send_Defaults(t *testing.T) {
	svc, _, sink := setupTestCommunicationService()

	c := sendTestMessage(t, svc, dto.SendCommunicationRequest{
		RecipientType:       model.RecipientIndividual,
		RecipientID:         "staff-1",
		RecipientDepartment: "Ignored",
		Subject:             " Badge renewal ",
		Message:             "Please visit reception.",
	})
	if c.Priority != model.PriorityNormal || c.CommunicationType != model.CommunicationTypeMessage {
		t.Errorf("期望默认 priority=normal type=message，实际=%s/%s", c.Priority, c.CommunicationType)
	}
	if c.Subject != "Badge renewal" || c.SenderID != "admin-1" || c.IsRead {
		t.Errorf("消息字段不符，实际=%+v", c)
	}
	if c.RecipientDepartment != nil {
		t.Errorf("个人消息不应保留部门字段，实际=%v", *c.RecipientDepartment)
	}
	if len(sink.notices) != 1 || sink.notices[0].UserID != "staff-1" {
		t.Errorf("期望通知收件人，实际=%+v", sink.notices)
	}
}

func TestCommunicationService_Send_Validation(t *testing.T) {
	svc, env, _ := setupTestCommunicationService()

	tests := []struct {
		name string
		req  dto.SendCommunicationRequest
		want error
	}{
		{"主题为空", dto.SendCommunicationRequest{RecipientType: model.RecipientAllStaff, Message: "hi"}, ErrSubjectRequired},
		{"内容为空", dto.SendCommunicationRequest{RecipientType: model.RecipientAllStaff, Subject: "hi", Message: "  "}, ErrBodyRequired},
		{"收件方式无效", dto.SendCommunicationRequest{RecipientType: "everyone", Subject: "hi", Message: "hi"}, ErrRecipientTypeInvalid},
		{"个人消息缺收件人", dto.SendCommunicationRequest{RecipientType: model.RecipientIndividual, Subject: "hi", Message: "hi"}, ErrIndividualMissing},
		{"部门消息缺部门", dto.SendCommunicationRequest{RecipientType: model.RecipientDepartment, Subject: "hi", Message: "hi"}, ErrDepartmentMissing},
		{"优先级无效", dto.SendCommunicationRequest{RecipientType: model.RecipientAllStaff, Subject: "hi", Message: "hi", Priority: "asap"}, ErrPriorityInvalid},
		{"消息类型无效", dto.SendCommunicationRequest{RecipientType: model.RecipientAllStaff, Subject: "hi", Message: "hi", CommunicationType: "memo"}, ErrCommunicationTypeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), testAdmin, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
	if len(env.communication.items) != 0 {
		t.Errorf("校验失败不应写入记录，实际=%d", len(env.communication.items))
	}
}

func TestCommunicationService_Inbox(t *testing.T) {
	svc, _, _ := setupTestCommunicationService()
	ctx := context.Background()

	sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientIndividual, RecipientID: "staff-1", Subject: "Direct", Message: "to sam"})
	sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientDepartment, RecipientDepartment: "Engineering", Subject: "Eng", Message: "to eng"})
	sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientDepartment, RecipientDepartment: "Finance", Subject: "Fin", Message: "to finance"})
	sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientAllStaff, Subject: "All", Message: "to all", Priority: "urgent", CommunicationType: "announcement"})

	inbox, total, err := svc.Inbox(ctx, testStaff, &dto.CommunicationListRequest{})
	if err != nil {
		t.Fatalf("Inbox 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("期望收件箱 3 条（个人、部门、全员），实际=%d", total)
	}
	for _, c := range inbox {
		if c.Subject == "Fin" {
			t.Error("不应收到其他部门的消息")
		}
	}

	unread, err := svc.UnreadCount(ctx, testStaff)
	if err != nil {
		t.Fatalf("UnreadCount 应成功: %v", err)
	}
	if unread != 3 {
		t.Errorf("期望未读 3 条，实际=%d", unread)
	}

	sent, total, err := svc.Sent(ctx, testAdmin, &dto.CommunicationListRequest{})
	if err != nil {
		t.Fatalf("Sent 应成功: %v", err)
	}
	if total != 4 || len(sent) != 4 {
		t.Errorf("期望已发送 4 条，实际=%d", total)
	}

	found, _, err := svc.Inbox(ctx, testStaff, &dto.CommunicationListRequest{Search: "DIRECT"})
	if err != nil {
		t.Fatalf("Inbox 应成功: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("搜索应不区分大小写，实际=%d 条", len(found))
	}
}

func TestCommunicationService_MarkRead(t *testing.T) {
	svc, env, _ := setupTestCommunicationService()
	ctx := context.Background()

	c := sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientIndividual, RecipientID: "staff-1", Subject: "Direct", Message: "hi"})

	read, err := svc.MarkRead(ctx, testStaff, c.ID)
	if err != nil {
		t.Fatalf("MarkRead 应成功: %v", err)
	}
	if !read.IsRead || read.ReadAt == nil {
		t.Errorf("期望 is_read=true 且记录阅读时间，实际=%+v", read)
	}
	firstReadAt := *env.communication.items[c.ID].ReadAt

	again, err := svc.MarkRead(ctx, testStaff, c.ID)
	if err != nil {
		t.Fatalf("重复 MarkRead 应成功: %v", err)
	}
	if !again.IsRead || !env.communication.items[c.ID].ReadAt.Equal(firstReadAt) {
		t.Error("重复标记不应改变阅读时间")
	}

	unread, _ := svc.UnreadCount(ctx, testStaff)
	if unread != 0 {
		t.Errorf("期望未读 0 条，实际=%d", unread)
	}
}

func TestCommunicationService_MarkRead_Errors(t *testing.T) {
	svc, _, _ := setupTestCommunicationService()
	ctx := context.Background()

	c := sendTestMessage(t, svc, dto.SendCommunicationRequest{RecipientType: model.RecipientDepartment, RecipientDepartment: "Engineering", Subject: "Eng", Message: "hi"})

	if _, err := svc.MarkRead(ctx, testStaff2, c.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("非收件人标记期望 ErrForbidden，实际: %v", err)
	}
	if _, err := svc.MarkRead(ctx, testStaff, c.ID); err != nil {
		t.Errorf("部门成员标记应成功: %v", err)
	}
	if _, err := svc.MarkRead(ctx, testStaff, "missing"); !errors.Is(err, ErrCommunicationNotFound) {
		t.Errorf("期望 ErrCommunicationNotFound，实际: %v", err)
	}
}
