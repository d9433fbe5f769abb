package resolvers

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

type createReportArgs struct {
	TargetType  string `json:"targetType" validate:"required,oneof=post comment user"`
	ObjectID    uint   `json:"objectId" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required,oneof=spam harassment hate_speech violence inappropriate copyright other"`
	Description string `json:"description" validate:"max=1000"`
}

// ReportPayload is the result of report mutations.
type ReportPayload struct {
	Report  *models.Report `json:"report"`
	Success bool           `json:"success"`
}

// createReport files a moderation report. Unlike likes and follows, a
// repeat report by the same reporter on the same target is an error.
func (r *Resolver) opCreateReport() *graphql.Operation {
	return &graphql.Operation{
		Name:    "createReport",
		NewArgs: func() any { return &createReportArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*createReportArgs)
			var payload *ReportPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				switch a.TargetType {
				case models.TargetPost:
					if _, err := fetchPost(tx, a.ObjectID); err != nil {
						return err
					}
				case models.TargetComment:
					if _, err := fetchComment(tx, a.ObjectID); err != nil {
						return err
					}
				case models.TargetUser:
					if _, err := fetchUser(tx, a.ObjectID); err != nil {
						return err
					}
				}

				report := models.Report{
					ReporterID:  p.UserID,
					TargetType:  a.TargetType,
					TargetID:    a.ObjectID,
					Reason:      a.Reason,
					Description: a.Description,
					Status:      models.ReportPending,
				}
				res := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "reporter_id"}, {Name: "target_type"}, {Name: "target_id"}},
					DoNothing: true,
				}).Create(&report)
				if res.Error != nil {
					return wrapDB(res.Error)
				}
				if res.RowsAffected == 0 {
					return graphql.NewDuplicateInteraction("you have already reported this " + a.TargetType)
				}
				payload = &ReportPayload{Report: &report, Success: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}

type updateReportArgs struct {
	ReportID uint   `json:"reportId" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=pending reviewed resolved dismissed"`
}

// updateReport moves a report along its status state machine. Privileged
// principals only; the pipeline rejects non-staff callers before this
// resolver runs.
func (r *Resolver) opUpdateReport() *graphql.Operation {
	return &graphql.Operation{
		Name:       "updateReport",
		Privileged: true,
		NewArgs:    func() any { return &updateReportArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*updateReportArgs)
			var payload *ReportPayload
			err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var report models.Report
				if err := tx.First(&report, a.ReportID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return graphql.NewNotFound("report")
					}
					return wrapDB(err)
				}
				if !models.ValidReportTransition(report.Status, a.Status) {
					return graphql.NewValidationError("status",
						"cannot move report from "+report.Status+" to "+a.Status)
				}
				if err := tx.Model(&report).Update("status", a.Status).Error; err != nil {
					return wrapDB(err)
				}
				payload = &ReportPayload{Report: &report, Success: true}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return payload, nil
		},
	}
}
