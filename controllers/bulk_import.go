package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"
)

const (
	// 업로드 배치 한도. 트랜잭션 시간이 늘어지지 않게 묶는다
	bulkImportMaxRows     = 500
	bulkImportMaxBodySize = 4 << 20 // 4MB
)

// BulkImportRow 업로드 한 행 (외부 파서가 추출한 튜플)
type BulkImportRow struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	Grade          string `json:"grade"`
	Source         string `json:"source"`
	AssignedSite   string `json:"assignedSite"`
	AssigneeLogin  string `json:"assigneeLoginId"`
}

// BulkImportResult 행 단위 처리 결과
type BulkImportResult struct {
	Row    int    `json:"row"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status"` // created / updated / error
	Error  string `json:"error,omitempty"`
}

// BulkImportCustomers 고객 대량 업로드 배정.
// 행 단위로 성공/실패를 수집하며 배치 전체를 중단하지 않는다.
// 다만 각 행의 고객 생성/수정과 원장 기록은 한 트랜잭션으로 묶인다.
func BulkImportCustomers(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bulkImportMaxBodySize)

	var requestData struct {
		Customers []BulkImportRow `json:"customers"`
	}
	if err := c.ShouldBindJSON(&requestData); err != nil {
		utils.HandleError(c, utils.CreateValidationError("업로드 데이터를 확인해 주세요: "+err.Error()))
		return
	}

	if len(requestData.Customers) == 0 {
		utils.HandleError(c, utils.CreateValidationError("업로드할 고객이 없습니다."))
		return
	}
	if len(requestData.Customers) > bulkImportMaxRows {
		utils.HandleError(c, utils.CreateValidationError(
			fmt.Sprintf("한 번에 %d건까지만 업로드할 수 있습니다.", bulkImportMaxRows)))
		return
	}

	batchID := uuid.NewString()

	utils.LogInfo(map[string]interface{}{
		"batchId":  batchID,
		"operator": caller.ID,
		"count":    len(requestData.Customers),
	}, "고객 대량 업로드 시작")

	ctx := c.Request.Context()

	// 담당자 지정 아이디를 한 번에 확인한다
	loginIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range requestData.Customers {
		if row.AssigneeLogin != "" && !seen[row.AssigneeLogin] {
			seen[row.AssigneeLogin] = true
			loginIDs = append(loginIDs, row.AssigneeLogin)
		}
	}

	assignees := make(map[string]models.User)
	if len(loginIDs) > 0 {
		cursor, err := repository.Collection(repository.UsersCollection).Find(ctx,
			bson.M{"loginid": bson.M{"$in": loginIDs}, "isactive": true},
			options.Find().SetProjection(bson.M{"_id": 1, "loginid": 1, "name": 1}),
		)
		if err != nil {
			utils.HandleError(c, utils.CreateInternalError(err))
			return
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			utils.HandleError(c, utils.CreateInternalError(err))
			return
		}
		for _, user := range users {
			assignees[user.LoginID] = user
		}
	}

	customersCollection := repository.Collection(repository.CustomersCollection)
	results := make([]BulkImportResult, 0, len(requestData.Customers))
	created, updated, failed := 0, 0, 0

	for i, row := range requestData.Customers {
		rowNum := i + 1

		if row.Name == "" {
			results = append(results, BulkImportResult{Row: rowNum, Status: "error", Error: "이름이 없습니다."})
			failed++
			continue
		}

		phone := utils.NormalizePhone(row.Phone)
		if !utils.IsValidPhone(phone) {
			results = append(results, BulkImportResult{Row: rowNum, Phone: row.Phone, Status: "error", Error: "연락처 형식이 올바르지 않습니다."})
			failed++
			continue
		}

		var assignee *models.User
		if row.AssigneeLogin != "" {
			user, ok := assignees[row.AssigneeLogin]
			if !ok {
				// 지정 담당자를 못 찾으면 행 에러로 남기고 계속 진행한다
				results = append(results, BulkImportResult{Row: rowNum, Phone: phone, Status: "error",
					Error: "담당 직원을 찾을 수 없습니다: " + row.AssigneeLogin})
				failed++
				continue
			}
			assignee = &user
		}

		row := row
		result, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			now := time.Now()

			var existing models.Customer
			findErr := customersCollection.FindOne(sc, bson.M{"phone": phone, "isdeleted": false}).Decode(&existing)
			isNew := findErr == mongo.ErrNoDocuments
			if findErr != nil && !isNew {
				return nil, findErr
			}

			set := bson.M{
				"name":      row.Name,
				"phone":     phone,
				"updatedat": now,
			}
			if row.Email != "" {
				set["email"] = row.Email
			}
			if row.Address != "" {
				set["address"] = row.Address
			}
			if row.Grade != "" {
				set["grade"] = row.Grade
			}
			if row.Source != "" {
				set["source"] = row.Source
			}
			if row.AssignedSite != "" {
				set["assignedsite"] = row.AssignedSite
			}

			priorHolderID := existing.AssignedUserID
			priorHolderName := existing.AssignedUserName

			if assignee != nil {
				set["assigneduserid"] = assignee.ID.Hex()
				set["assignedusername"] = assignee.Name
				set["assignedat"] = now
				set["ispublic"] = false
			}

			var customerID string
			customerName := row.Name
			if isNew {
				customer := models.Customer{
					Name:         row.Name,
					Phone:        phone,
					Email:        row.Email,
					Address:      row.Address,
					Grade:        row.Grade,
					Source:       row.Source,
					AssignedSite: row.AssignedSite,
					CreatedByID:  caller.ID,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if assignee != nil {
					customer.AssignedUserID = assignee.ID.Hex()
					customer.AssignedUserName = assignee.Name
					customer.AssignedAt = &now
				}
				insertResult, err := customersCollection.InsertOne(sc, customer)
				if err != nil {
					return nil, err
				}
				customerID = insertResult.InsertedID.(primitive.ObjectID).Hex()
			} else {
				if _, err := customersCollection.UpdateOne(sc, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
					return nil, err
				}
				customerID = existing.ID.Hex()
			}

			// 담당자가 실제로 바뀌는 경우에만 원장에 남긴다
			if assignee != nil && priorHolderID != assignee.ID.Hex() {
				err := service.AppendAllocation(sc, models.CustomerAllocation{
					CustomerID:      customerID,
					CustomerName:    customerName,
					FromUserID:      priorHolderID,
					FromUserName:    priorHolderName,
					ToUserID:        assignee.ID.Hex(),
					ToUserName:      assignee.Name,
					AllocatedByID:   caller.ID,
					AllocatedByName: caller.Name,
					Reason:          "대량 업로드 배정 (배치 " + batchID + ")",
					CreatedAt:       now,
				})
				if err != nil {
					return nil, err
				}
			}

			return isNew, nil
		})
		if err != nil {
			results = append(results, BulkImportResult{Row: rowNum, Phone: phone, Status: "error", Error: err.Error()})
			failed++
			continue
		}

		if result.(bool) {
			results = append(results, BulkImportResult{Row: rowNum, Phone: phone, Status: "created"})
			created++
		} else {
			results = append(results, BulkImportResult{Row: rowNum, Phone: phone, Status: "updated"})
			updated++
		}
	}

	utils.LogInfo(map[string]interface{}{
		"batchId": batchID,
		"created": created,
		"updated": updated,
		"failed":  failed,
	}, "고객 대량 업로드 완료")

	service.RecordAudit(caller.ID, caller.Name, "bulk-import", "customer", batchID,
		map[string]interface{}{"created": created, "updated": updated, "failed": failed},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{
		"batchId": batchID,
		"created": created,
		"updated": updated,
		"failed":  failed,
		"results": results,
	}, "대량 업로드가 완료되었습니다.")
}
