package electionengine

import (
	"log/slog"

	httpadapter "ballotbox/contexts/elections/election-engine/adapters/http"
	"ballotbox/contexts/elections/election-engine/adapters/memory"
	"ballotbox/contexts/elections/election-engine/application/commands"
	"ballotbox/contexts/elections/election-engine/application/queries"
	"ballotbox/contexts/elections/election-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Votes     ports.VoteRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	setupUseCase := commands.SetupUseCase{
		Elections: deps.Elections,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	voteUseCase := commands.VoteUseCase{
		Elections: deps.Elections,
		Votes:     deps.Votes,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	statisticsUseCase := queries.StatisticsUseCase{
		Elections: deps.Elections,
		Votes:     deps.Votes,
	}
	return Module{
		Handler: httpadapter.Handler{
			Setup:      setupUseCase,
			Votes:      voteUseCase,
			Statistics: statisticsUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections: store,
		Votes:     store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
