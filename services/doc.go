/*
Package services provides HTTP-based deployments of the protocol
components.

The star channel of the protocol is an abstract reliable request/response
transport; this package is its HTTP substitution. The privacy contract is
preserved: per comparison invocation, exactly one bit crosses the wire
from a party to the coordinator.

# Components

 1. PartyHandler (party_handler.go)
    Exposes one party over HTTP.
    Endpoints:
    - `POST /party/compare` - answer a comparison with a single bit
    - `GET /party/info` - party ordinal and domain bit length

 2. RemoteParty (remote_party.go)
    Implements protocol.Party against a party endpoint. The coordinator's
    per-invocation timeout applies through the request context.

 3. ResultsHandler (results_handler.go)
    Serves recorded accuracy trials to downstream plotting tools, with
    permissive CORS so browser dashboards can fetch them directly.

 4. TrialStore (store.go, postgres_store.go)
    Persistence for accuracy trials: an in-memory store for tests and
    short-lived runs, and a PostgreSQL store for durable result
    collection.

 5. Orchestrator (orchestrator.go)
    Deploys n party servers plus a coordinator run in one process, for
    demos and end-to-end tests.
*/
package services
