package handlers

import (
	"github.com/hodlflow/stacker/internal/app/service/price"
	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespPlan wraps a single plan in the standard envelope.
type RespPlan struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Plan              `json:"data"`
}

// RespListPlans wraps a list of plans in the standard envelope.
type RespListPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Plan            `json:"data"`
}

// RespExecution wraps a single execution record in the standard envelope.
type RespExecution struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ExecutionLog      `json:"data"`
}

// RespListExecutions wraps a plan's execution ledger in the standard envelope.
type RespListExecutions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.ExecutionLog    `json:"data"`
}

// RespPrice wraps a price snapshot in the standard envelope.
type RespPrice struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    price.Snapshot           `json:"data"`
}

// RespListAdminPlans wraps ListPlansResponse in the standard envelope.
type RespListAdminPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListPlansResponse        `json:"data"`
}
