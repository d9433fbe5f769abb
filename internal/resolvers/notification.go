package resolvers

import (
	"context"

	"github.com/nexus-social/backend/internal/graphql"
)

type markNotificationReadArgs struct {
	NotificationID uint `json:"notificationId" validate:"required,gt=0"`
}

// NotificationReadPayload is the result of the mark-read mutations.
type NotificationReadPayload struct {
	Success bool  `json:"success"`
	Marked  int64 `json:"marked"`
}

// markNotificationRead flips one notification the caller owns. The query
// is recipient-scoped, so a notification belonging to someone else is
// indistinguishable from one that does not exist.
func (r *Resolver) opMarkNotificationRead() *graphql.Operation {
	return &graphql.Operation{
		Name:    "markNotificationRead",
		NewArgs: func() any { return &markNotificationReadArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*markNotificationReadArgs)
			affected, err := r.notifications.MarkRead(ctx, a.NotificationID, p.UserID)
			if err != nil {
				return nil, wrapDB(err)
			}
			if affected == 0 {
				return nil, graphql.NewNotFound("notification")
			}
			return &NotificationReadPayload{Success: true, Marked: affected}, nil
		},
	}
}

func (r *Resolver) opMarkAllNotificationsRead() *graphql.Operation {
	return &graphql.Operation{
		Name: "markAllNotificationsRead",
		Resolve: func(ctx context.Context, p graphql.Principal, _ any) (any, error) {
			affected, err := r.notifications.MarkAllRead(ctx, p.UserID)
			if err != nil {
				return nil, wrapDB(err)
			}
			return &NotificationReadPayload{Success: true, Marked: affected}, nil
		},
	}
}

type myNotificationsArgs struct {
	UnreadOnly bool `json:"unreadOnly"`
	First      int  `json:"first" validate:"omitempty,gt=0,max=100"`
	Skip       int  `json:"skip" validate:"omitempty,min=0"`
}

func (r *Resolver) opMyNotifications() *graphql.Operation {
	return &graphql.Operation{
		Name:    "myNotifications",
		NewArgs: func() any { return &myNotificationsArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*myNotificationsArgs)
			if a.First == 0 {
				a.First = 20
			}
			notifications, err := r.notifications.ListByRecipient(ctx, p.UserID, a.UnreadOnly, a.First, a.Skip)
			if err != nil {
				return nil, wrapDB(err)
			}
			return notifications, nil
		},
	}
}

func (r *Resolver) opUnreadCount() *graphql.Operation {
	return &graphql.Operation{
		Name: "unreadCount",
		Resolve: func(ctx context.Context, p graphql.Principal, _ any) (any, error) {
			count, err := r.notifications.UnreadCount(ctx, p.UserID)
			if err != nil {
				return nil, wrapDB(err)
			}
			return map[string]int64{"count": count}, nil
		},
	}
}
