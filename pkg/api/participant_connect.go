package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// ParticipantServiceName is the fully-qualified name of the ParticipantService.
const ParticipantServiceName = "balance.v1.ParticipantService"

const (
	ParticipantServiceCreateParticipantProcedure = "/balance.v1.ParticipantService/CreateParticipant"
	ParticipantServiceGetParticipantProcedure    = "/balance.v1.ParticipantService/GetParticipant"
	ParticipantServiceListParticipantsProcedure  = "/balance.v1.ParticipantService/ListParticipants"
	ParticipantServiceUpdateParticipantProcedure = "/balance.v1.ParticipantService/UpdateParticipant"
	ParticipantServiceDeleteParticipantProcedure = "/balance.v1.ParticipantService/DeleteParticipant"
	ParticipantServiceGetSettlementPlanProcedure = "/balance.v1.ParticipantService/GetSettlementPlan"
	ParticipantServiceGetSummaryProcedure        = "/balance.v1.ParticipantService/GetSummary"
)

// ParticipantServiceHandler is implemented by the participant service.
type ParticipantServiceHandler interface {
	CreateParticipant(context.Context, *connect.Request[CreateParticipantRequest]) (*connect.Response[CreateParticipantResponse], error)
	GetParticipant(context.Context, *connect.Request[GetParticipantRequest]) (*connect.Response[GetParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	UpdateParticipant(context.Context, *connect.Request[UpdateParticipantRequest]) (*connect.Response[UpdateParticipantResponse], error)
	DeleteParticipant(context.Context, *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

// NewParticipantServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewParticipantServiceHandler(svc ParticipantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opt := handlerOptions(opts)
	return "/" + ParticipantServiceName + "/", serviceMux{
		ParticipantServiceCreateParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceCreateParticipantProcedure, svc.CreateParticipant, opt),
		ParticipantServiceGetParticipantProcedure:    connect.NewUnaryHandler(ParticipantServiceGetParticipantProcedure, svc.GetParticipant, opt),
		ParticipantServiceListParticipantsProcedure:  connect.NewUnaryHandler(ParticipantServiceListParticipantsProcedure, svc.ListParticipants, opt),
		ParticipantServiceUpdateParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceUpdateParticipantProcedure, svc.UpdateParticipant, opt),
		ParticipantServiceDeleteParticipantProcedure: connect.NewUnaryHandler(ParticipantServiceDeleteParticipantProcedure, svc.DeleteParticipant, opt),
		ParticipantServiceGetSettlementPlanProcedure: connect.NewUnaryHandler(ParticipantServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opt),
		ParticipantServiceGetSummaryProcedure:        connect.NewUnaryHandler(ParticipantServiceGetSummaryProcedure, svc.GetSummary, opt),
	}
}

// ParticipantServiceClient is a client for the balance.v1.ParticipantService.
type ParticipantServiceClient interface {
	CreateParticipant(context.Context, *connect.Request[CreateParticipantRequest]) (*connect.Response[CreateParticipantResponse], error)
	GetParticipant(context.Context, *connect.Request[GetParticipantRequest]) (*connect.Response[GetParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	UpdateParticipant(context.Context, *connect.Request[UpdateParticipantRequest]) (*connect.Response[UpdateParticipantResponse], error)
	DeleteParticipant(context.Context, *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

// NewParticipantServiceClient constructs a client for the service at baseURL,
// for example http://localhost:8080.
func NewParticipantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ParticipantServiceClient {
	opt := clientOptions(opts)
	return &participantServiceClient{
		createParticipant: connect.NewClient[CreateParticipantRequest, CreateParticipantResponse](httpClient, baseURL+ParticipantServiceCreateParticipantProcedure, opt),
		getParticipant:    connect.NewClient[GetParticipantRequest, GetParticipantResponse](httpClient, baseURL+ParticipantServiceGetParticipantProcedure, opt),
		listParticipants:  connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](httpClient, baseURL+ParticipantServiceListParticipantsProcedure, opt),
		updateParticipant: connect.NewClient[UpdateParticipantRequest, UpdateParticipantResponse](httpClient, baseURL+ParticipantServiceUpdateParticipantProcedure, opt),
		deleteParticipant: connect.NewClient[DeleteParticipantRequest, DeleteParticipantResponse](httpClient, baseURL+ParticipantServiceDeleteParticipantProcedure, opt),
		getSettlementPlan: connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+ParticipantServiceGetSettlementPlanProcedure, opt),
		getSummary:        connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+ParticipantServiceGetSummaryProcedure, opt),
	}
}

type participantServiceClient struct {
	createParticipant *connect.Client[CreateParticipantRequest, CreateParticipantResponse]
	getParticipant    *connect.Client[GetParticipantRequest, GetParticipantResponse]
	listParticipants  *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	updateParticipant *connect.Client[UpdateParticipantRequest, UpdateParticipantResponse]
	deleteParticipant *connect.Client[DeleteParticipantRequest, DeleteParticipantResponse]
	getSettlementPlan *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
	getSummary        *connect.Client[GetSummaryRequest, GetSummaryResponse]
}

func (c *participantServiceClient) CreateParticipant(ctx context.Context, req *connect.Request[CreateParticipantRequest]) (*connect.Response[CreateParticipantResponse], error) {
	return c.createParticipant.CallUnary(ctx, req)
}

func (c *participantServiceClient) GetParticipant(ctx context.Context, req *connect.Request[GetParticipantRequest]) (*connect.Response[GetParticipantResponse], error) {
	return c.getParticipant.CallUnary(ctx, req)
}

func (c *participantServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *participantServiceClient) UpdateParticipant(ctx context.Context, req *connect.Request[UpdateParticipantRequest]) (*connect.Response[UpdateParticipantResponse], error) {
	return c.updateParticipant.CallUnary(ctx, req)
}

func (c *participantServiceClient) DeleteParticipant(ctx context.Context, req *connect.Request[DeleteParticipantRequest]) (*connect.Response[DeleteParticipantResponse], error) {
	return c.deleteParticipant.CallUnary(ctx, req)
}

func (c *participantServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *participantServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
