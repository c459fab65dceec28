package sql

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/metadatax/mediainfobot/pkg/contract"
	"github.com/metadatax/mediainfobot/pkg/query"
	"github.com/metadatax/mediainfobot/pkg/query/parser"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/store/sql/model"
	"github.com/metadatax/mediainfobot/pkg/utils"
)

const batchSize = 100

type PageToken struct {
	Offset int32 `json:"offset"`
}

func (s *Store) SaveReport(report *store.Report) *contract.Error {
	record := model.NewReportFromEntity(report)

	if err := s.db.Transaction(func(transaction *gorm.DB) error {
		// A re-analysis of the same file replaces the old report.
		var oldIDs []int64
		if err := transaction.
			Model(&model.Report{}).
			Where("file_unique_id = ?", record.FileUniqueID).
			Pluck("report_id", &oldIDs).Error; err != nil {
			return fmt.Errorf("failed to find previous reports: %w", err)
		}

		if len(oldIDs) > 0 {
			if err := transaction.
				Where("report_id IN ?", oldIDs).
				Delete(&model.ReportProperty{}).Error; err != nil {
				return fmt.Errorf("failed to delete previous report properties: %w", err)
			}

			if err := transaction.
				Where("report_id IN ?", oldIDs).
				Delete(&model.Report{}).Error; err != nil {
				return fmt.Errorf("failed to delete previous reports: %w", err)
			}
		}

		properties := record.Properties
		record.Properties = nil

		if err := transaction.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		for index := range properties {
			properties[index].ReportID = record.ID
		}

		if len(properties) > 0 {
			if err := transaction.Clauses(clause.OnConflict{
				UpdateAll: true,
			}).CreateInBatches(properties, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert report properties: %w", err)
			}
		}

		return nil
	}); err != nil {
		return contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			fmt.Sprintf("failed to save report for file %q", report.FileUniqueID),
			err,
		)
	}

	report.ID = record.ID

	return nil
}

func (s *Store) GetReport(id int64) (*store.Report, *contract.Error) {
	record := model.Report{ID: id}
	if err := s.db.Preload("Properties").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No report with id=%d exists", id),
			)
		}

		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to get report",
			err,
		)
	}

	return record.ToEntity(), nil
}

func (s *Store) LatestReportForFile(fileUniqueID string) (*store.Report, *contract.Error) {
	var record model.Report

	err := s.db.
		Preload("Properties").
		Where("file_unique_id = ?", fileUniqueID).
		Order("created DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			fmt.Sprintf("failed to look up report for file %q", fileUniqueID),
			err,
		)
	}

	return record.ToEntity(), nil
}

func getOffset(pageToken string) (int, *contract.Error) {
	if pageToken == "" {
		return 0, nil
	}

	var token PageToken
	if err := json.NewDecoder(
		base64.NewDecoder(
			base64.StdEncoding,
			strings.NewReader(pageToken),
		),
	).Decode(&token); err != nil {
		return 0, contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("invalid page_token: %q", pageToken),
			err,
		)
	}

	return int(token.Offset), nil
}

func mkNextPageToken(resultLength, maxResults, offset int) (*string, *contract.Error) {
	if resultLength < maxResults {
		return nil, nil
	}

	token, err := json.Marshal(PageToken{
		Offset: int32(offset + maxResults),
	})
	if err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"error encoding 'nextPageToken' value",
			err,
		)
	}

	return utils.PtrTo(base64.StdEncoding.EncodeToString(token)), nil
}

func (s *Store) applyFilters(transaction *gorm.DB, filter string) *contract.Error {
	filterConditions, err := query.ParseFilter(filter)
	if err != nil {
		return contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			"error parsing search filter",
			err,
		)
	}

	for index, condition := range filterConditions {
		key := condition.Key
		comparison := condition.Operator.String()
		value := condition.Value

		isSqliteAndILike := s.db.Dialector.Name() == "sqlite" && comparison == "ILIKE"

		if condition.Identifier == parser.Attribute {
			if isSqliteAndILike {
				if str, ok := value.(string); ok {
					value = strings.ToLower(str)
				}

				transaction.Where(fmt.Sprintf("LOWER(reports.%s) LIKE ?", key), value)
			} else {
				transaction.Where(fmt.Sprintf("reports.%s %s ?", key, comparison), value)
			}

			continue
		}

		// Property comparisons join the report_properties table once
		// per condition.
		where := "value " + comparison + " ?"
		if isSqliteAndILike {
			where = "LOWER(value) LIKE ?"

			if str, ok := value.(string); ok {
				value = strings.ToLower(str)
			}
		}

		table := fmt.Sprintf("filter_%d", index)
		transaction.Joins(
			fmt.Sprintf("JOIN (?) AS %s ON reports.report_id = %s.report_id", table, table),
			s.db.Select("report_id", "value").Where("key = ?", key).Where(where, value).Model(&model.ReportProperty{}),
		)
	}

	return nil
}

func (s *Store) SearchReports(
	filter string, maxResults int, pageToken string,
) (*store.PagedList[*store.Report], *contract.Error) {
	transaction := s.db.Model(&model.Report{})
	transaction.Limit(maxResults)

	offset, contractError := getOffset(pageToken)
	if contractError != nil {
		return nil, contractError
	}

	transaction.Offset(offset)

	contractError = s.applyFilters(transaction, filter)
	if contractError != nil {
		return nil, contractError
	}

	transaction.Order("reports.created DESC")
	transaction.Order("reports.report_id")

	var records []model.Report

	transaction.Preload("Properties").Find(&records)

	if transaction.Error != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to query search reports",
			transaction.Error,
		)
	}

	reports := make([]*store.Report, 0, len(records))
	for _, record := range records {
		reports = append(reports, record.ToEntity())
	}

	nextPageToken, contractError := mkNextPageToken(len(records), maxResults, offset)
	if contractError != nil {
		return nil, contractError
	}

	return &store.PagedList[*store.Report]{
		Items:         reports,
		NextPageToken: nextPageToken,
	}, nil
}
