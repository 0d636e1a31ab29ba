package scenario

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"
	"github.com/spf13/cast"
	"google.golang.org/grpc/status"

	lsmkeeper "github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	lsmtypes "github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	lockerkeeper "github.com/tokenize-x/lsm-staking/x/votinglocker/keeper"
	lockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// NewRouter serves the module queries over the state the runner left behind.
func NewRouter(runner *Runner) *mux.Router {
	lsmQueries := lsmkeeper.NewQueryService(runner.App().LsmStakingKeeper)
	lockerQueries := lockerkeeper.NewQueryService(runner.App().VotingLockerKeeper)
	ctx := runner.Context()

	router := mux.NewRouter()
	router.Use(jsonContentType)

	lsm := router.PathPrefix("/" + lsmtypes.ModuleName).Subrouter()
	lsm.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lsmQueries.Config(ctx, &lsmtypes.QueryConfigRequest{}))
	}).Methods(http.MethodGet)
	lsm.HandleFunc("/stakers", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		writeResponse(w)(lsmQueries.Stakers(ctx, &lsmtypes.QueryStakersRequest{
			StartAfter: query.Get("start_after"),
			Limit:      cast.ToUint32(query.Get("limit")),
		}))
	}).Methods(http.MethodGet)
	lsm.HandleFunc("/stakers/{address}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lsmQueries.StakerInfo(ctx, &lsmtypes.QueryStakerInfoRequest{
			Address: mux.Vars(r)["address"],
		}))
	}).Methods(http.MethodGet)
	lsm.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lsmQueries.VotingSessions(ctx, &lsmtypes.QueryVotingSessionsRequest{}))
	}).Methods(http.MethodGet)
	lsm.HandleFunc("/sessions/{proposal_id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lsmQueries.VotingSession(ctx, &lsmtypes.QueryVotingSessionRequest{
			ProposalID: cast.ToUint64(mux.Vars(r)["proposal_id"]),
		}))
	}).Methods(http.MethodGet)
	lsm.HandleFunc("/pending", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lsmQueries.PendingOperations(ctx, &lsmtypes.QueryPendingOperationsRequest{}))
	}).Methods(http.MethodGet)

	locker := router.PathPrefix("/" + lockertypes.ModuleName).Subrouter()
	locker.HandleFunc("/lockers", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lockerQueries.Lockers(ctx, &lockertypes.QueryLockersRequest{
			ProposalID: cast.ToUint64(r.URL.Query().Get("proposal_id")),
		}))
	}).Methods(http.MethodGet)
	locker.HandleFunc("/lockers/{address}", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lockerQueries.Config(ctx, &lockertypes.QueryConfigRequest{
			Locker: mux.Vars(r)["address"],
		}))
	}).Methods(http.MethodGet)
	locker.HandleFunc("/lockers/{address}/power", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w)(lockerQueries.TotalVotingPower(ctx, &lockertypes.QueryTotalVotingPowerRequest{
			Locker: mux.Vars(r)["address"],
		}))
	}).Methods(http.MethodGet)

	return router
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeResponse(w http.ResponseWriter) func(resp any, err error) {
	return func(resp any, err error) {
		encoder := json.NewEncoder(w)
		if err != nil {
			w.WriteHeader(runtime.HTTPStatusFromCode(status.Code(err)))
			_ = encoder.Encode(errorResponse{Error: err.Error()})
			return
		}
		_ = encoder.Encode(resp)
	}
}
