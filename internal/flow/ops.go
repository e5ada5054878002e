/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package flow

import (
	"fmt"
	"log/slog"

	applog "storyflow/internal/log"
	"storyflow/internal/metrics"
	"storyflow/internal/script"
)

// CacheInvalidator invalidates the content-cache entry of a file after its
// AST was mutated. Satisfied by cache.Cache.
type CacheInvalidator interface {
	Invalidate(path string)
}

// History records an AST snapshot before a mutation so the editor shell can
// undo graph edits. Satisfied by undo.Manager.
type History interface {
	RecordSnapshot(path string, blob []byte)
}

// Handler is the transactional façade over graph edits. Every operation is a
// single synchronous step: on success the AST is mutated, the owning file's
// cache entry is invalidated and an undo snapshot has been recorded; on
// failure the AST is left untouched and a Result describes why.
type Handler struct {
	path    string
	pool    *PendingPool
	cache   CacheInvalidator
	history History
	log     *slog.Logger
}

// NewHandler builds a handler for one open script file. cache and history
// may be nil when the caller does not track them.
func NewHandler(path string, pool *PendingPool, cache CacheInvalidator, history History) *Handler {
	if pool == nil {
		pool = NewPendingPool()
	}
	return &Handler{
		path:    path,
		pool:    pool,
		cache:   cache,
		history: history,
		log:     applog.WithComponent("flow").With(slog.String("path", path)),
	}
}

// Pool returns the handler's pending pool.
func (h *Handler) Pool() *PendingPool { return h.pool }

// CreateNode allocates a node of the given type with type defaults merged
// under the overrides and places it in the pending pool. No AST mutation
// occurs; the node gains AST backing only once it is connected.
func (h *Handler) CreateNode(typ NodeType, pos XY, overrides Data) string {
	id := script.NewID()
	n := &Node{
		ID:         id,
		Type:       typ,
		Position:   pos,
		Positioned: true,
		Data:       mergeData(defaultData(typ), overrides),
	}
	h.pool.Add(n)
	metrics.NodeOperations.WithLabelValues("create", "ok").Inc()
	h.log.Debug("pending node created", slog.String("node", id), slog.String("type", string(typ)))
	return id
}

// ConnectNodes wires sourceID to targetID. A pending target is committed:
// its buffered data becomes AST statements spliced at the insertion point
// resolved for the source, and the node leaves the pool. An existing target
// rewires AST control flow instead (retarget a jump/call, or insert a jump
// into the menu-choice/if-branch body selected by sourceHandle). Any failure
// leaves the AST untouched.
func (h *Handler) ConnectNodes(sourceID, targetID, sourceHandle string, g *Graph, ast *script.Script) Result {
	res := h.connect(sourceID, targetID, sourceHandle, g, ast)
	h.report("connect", res)
	return res
}

func (h *Handler) connect(sourceID, targetID, sourceHandle string, g *Graph, ast *script.Script) Result {
	if sourceID == targetID {
		return failed(fmt.Errorf("%w: self loop on %s", ErrInvalidConnection, sourceID))
	}
	if g.HasEdge(sourceID, targetID, sourceHandle, "") {
		return failed(fmt.Errorf("%w: duplicate edge %s>%s", ErrInvalidConnection, sourceID, targetID))
	}

	src := g.Node(sourceID)
	if src == nil {
		if h.pool.IsPending(sourceID) {
			// A pending source has no owning scene yet.
			return failed(ErrUnresolvableLabel)
		}
		return failed(fmt.Errorf("%w: unknown source %s", ErrInvalidConnection, sourceID))
	}

	labelName := src.Data.Label
	if src.Type != NodeScene {
		labelName = ResolveNodeLabel(sourceID, g)
	}
	if labelName == "" {
		return failed(ErrUnresolvableLabel)
	}
	label := ast.FindLabel(labelName)
	if label == nil {
		return failed(fmt.Errorf("%w: label %q not in tree", ErrUnresolvableLabel, labelName))
	}

	// A non-empty handle must name a live choice/branch port on the source.
	var portBody *[]*script.Node
	if sourceHandle != "" {
		body, err := h.resolvePortBody(src, sourceHandle, ast)
		if err != nil {
			return failed(err)
		}
		portBody = body
	}

	if pn, ok := h.pool.Get(targetID); ok {
		return h.commitPending(pn, src, portBody, label, ast)
	}

	tgt := g.Node(targetID)
	if tgt == nil {
		return failed(fmt.Errorf("%w: unknown target %s", ErrInvalidConnection, targetID))
	}

	switch {
	case src.Type == NodeJump || src.Type == NodeCall:
		// Dragging a jump/call edge onto a scene retargets the statement.
		if tgt.Type != NodeScene {
			return failed(fmt.Errorf("%w: %s must point at a scene", ErrInvalidConnection, src.Type))
		}
		stmt := ast.Find(sourceID)
		if stmt == nil || (stmt.Kind != script.KindJump && stmt.Kind != script.KindCall) {
			return failed(fmt.Errorf("%w: source %s has no jump statement", ErrInvalidConnection, sourceID))
		}
		h.snapshot(ast)
		stmt.Target = tgt.Data.Label
		h.invalidate()
		return succeeded()

	case portBody != nil:
		// Choice/branch port onto a scene: the branch ends in a jump there.
		if tgt.Type != NodeScene {
			return failed(fmt.Errorf("%w: port connection must target a scene", ErrInvalidConnection))
		}
		h.snapshot(ast)
		jump := script.NewNode(script.KindJump)
		jump.Target = tgt.Data.Label
		script.Insert(portBody, len(*portBody), jump)
		h.invalidate()
		return succeeded()

	case tgt.Type == NodeScene:
		// Sequential flow into a label becomes a jump after the source.
		body, at, err := h.insertionPoint(src, label, ast)
		if err != nil {
			return failed(err)
		}
		h.snapshot(ast)
		jump := script.NewNode(script.KindJump)
		jump.Target = tgt.Data.Label
		script.Insert(body, at, jump)
		h.invalidate()
		return succeeded()

	default:
		return failed(fmt.Errorf("%w: edge does not correspond to a statement", ErrInvalidConnection))
	}
}

// commitPending turns a pending node into AST statements at the insertion
// point implied by the source, then evicts it from the pool.
func (h *Handler) commitPending(pn *Node, src *Node, portBody *[]*script.Node, label *script.Node, ast *script.Script) Result {
	var body *[]*script.Node
	var at int
	switch {
	case portBody != nil:
		body, at = portBody, 0
	case src.Type == NodeScene:
		body, at = &label.Body, 0
	default:
		b, i, err := h.insertionPoint(src, label, ast)
		if err != nil {
			return failed(err)
		}
		body, at = b, i
	}

	stmts, extraLabel, err := statementsForPending(pn)
	if err != nil {
		return failed(err)
	}

	h.snapshot(ast)
	script.Insert(body, at, stmts...)
	if extraLabel != nil {
		ast.Statements = append(ast.Statements, extraLabel)
	}
	h.pool.Remove(pn.ID)
	h.invalidate()
	return succeeded()
}

// insertionPoint locates the body slice and index immediately after the
// source node's backing statement.
func (h *Handler) insertionPoint(src *Node, label *script.Node, ast *script.Script) (*[]*script.Node, int, error) {
	anchor := src.ID
	if n := len(src.Data.AstNodes); n > 0 {
		anchor = src.Data.AstNodes[n-1]
	}
	body, i := ast.Container(anchor)
	if body == nil {
		return nil, 0, fmt.Errorf("%w: statement %s not found under %q", ErrUnresolvableLabel, anchor, label.Name)
	}
	return body, i + 1, nil
}

// resolvePortBody maps a sourceHandle to the choice/branch body it selects.
func (h *Handler) resolvePortBody(src *Node, handle string, ast *script.Script) (*[]*script.Node, error) {
	prefix, idx, ok := parseHandle(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHandle, handle)
	}
	stmt := ast.Find(src.ID)
	if stmt == nil {
		return nil, fmt.Errorf("%w: source %s has no statement", ErrInvalidConnection, src.ID)
	}
	switch {
	case src.Type == NodeMenu && prefix == "choice":
		if idx >= len(stmt.Choices) {
			return nil, fmt.Errorf("%w: choice index %d of %d", ErrMalformedHandle, idx, len(stmt.Choices))
		}
		return &stmt.Choices[idx].Body, nil
	case src.Type == NodeCondition && prefix == "branch":
		if idx >= len(stmt.Branches) {
			return nil, fmt.Errorf("%w: branch index %d of %d", ErrMalformedHandle, idx, len(stmt.Branches))
		}
		return &stmt.Branches[idx].Body, nil
	default:
		return nil, fmt.Errorf("%w: %s has no port %q", ErrMalformedHandle, src.Type, handle)
	}
}

// statementsForPending translates a pending node's buffered data into AST
// statements. The first statement reuses the node id so identity is stable
// across the commit. A pending scene additionally yields a new top-level
// label returned separately.
func statementsForPending(pn *Node) (stmts []*script.Node, extraLabel *script.Node, err error) {
	switch pn.Type {
	case NodeJump, NodeCall:
		kind := script.KindJump
		if pn.Type == NodeCall {
			kind = script.KindCall
		}
		st := &script.Node{ID: pn.ID, Kind: kind, Target: pn.Data.Target}
		return []*script.Node{st}, nil, nil

	case NodeReturn:
		return []*script.Node{{ID: pn.ID, Kind: script.KindReturn}}, nil, nil

	case NodeDialogue:
		lines := pn.Data.Lines
		if len(lines) == 0 {
			lines = []DialogueLine{{Speaker: pn.Data.Speaker, Text: pn.Data.Text}}
		}
		for i, l := range lines {
			st := &script.Node{Kind: script.KindDialogue, Speaker: l.Speaker, Text: l.Text}
			if i == 0 {
				st.ID = pn.ID
			} else {
				st.ID = script.NewID()
			}
			stmts = append(stmts, st)
		}
		return stmts, nil, nil

	case NodeMenu:
		st := &script.Node{ID: pn.ID, Kind: script.KindMenu, Prompt: pn.Data.Text}
		for _, p := range pn.Data.Choices {
			st.Choices = append(st.Choices, &script.Choice{Text: p.Label})
		}
		return []*script.Node{st}, nil, nil

	case NodeCondition:
		st := &script.Node{ID: pn.ID, Kind: script.KindIf}
		for _, p := range pn.Data.Branches {
			cond := p.Label
			if cond == "else" {
				cond = ""
			}
			st.Branches = append(st.Branches, &script.Branch{Condition: cond})
		}
		return []*script.Node{st}, nil, nil

	case NodeScene:
		// Connecting into a pending scene creates the label and a jump to it.
		name := pn.Data.Label
		if name == "" {
			return nil, nil, fmt.Errorf("%w: pending scene without a label name", ErrInvalidConnection)
		}
		jump := script.NewNode(script.KindJump)
		jump.Target = name
		extraLabel = &script.Node{ID: pn.ID, Kind: script.KindLabel, Name: name}
		return []*script.Node{jump}, extraLabel, nil

	case NodeDirective, NodeStatement:
		st := &script.Node{ID: pn.ID, Kind: script.KindRaw, Content: pn.Data.Statement}
		return []*script.Node{st}, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: cannot synthesize %s", ErrInvalidConnection, pn.Type)
	}
}

// RemoveConnection deletes the single AST statement an edge corresponds to:
// the jump/call statement when the edge leaves or enters a jump/call node,
// or the matching statement of the choice/branch body named by sourceHandle.
// An edge that cannot be traced to exactly one statement deletes nothing.
func (h *Handler) RemoveConnection(sourceID, targetID, sourceHandle string, g *Graph, ast *script.Script) Result {
	res := h.removeConnection(sourceID, targetID, sourceHandle, g, ast)
	h.report("disconnect", res)
	return res
}

func (h *Handler) removeConnection(sourceID, targetID, sourceHandle string, g *Graph, ast *script.Script) Result {
	src := g.Node(sourceID)
	tgt := g.Node(targetID)
	if src == nil || tgt == nil {
		return failed(fmt.Errorf("%w: unknown endpoint", ErrInvalidConnection))
	}

	switch {
	case sourceHandle != "":
		// The edge is a choice/branch port: delete the port body statement
		// the edge points at.
		body, err := h.resolvePortBody(src, sourceHandle, ast)
		if err != nil {
			return failed(err)
		}
		want := tgt.ID
		if len(tgt.Data.AstNodes) > 0 {
			want = tgt.Data.AstNodes[0]
		}
		for i, st := range *body {
			if st.ID == want {
				h.snapshot(ast)
				script.Remove(body, i)
				h.invalidate()
				return succeeded()
			}
		}
		return failed(fmt.Errorf("%w: %s not in port body", ErrAmbiguousStatement, want))

	case src.Type == NodeJump || src.Type == NodeCall:
		// The control edge of a jump/call: delete its own statement.
		return h.removeStatement(sourceID, ast)

	case tgt.Type == NodeJump || tgt.Type == NodeCall:
		// The incoming flow of a jump/call: the edge exists only because of
		// that statement, so deleting the statement removes the edge.
		return h.removeStatement(targetID, ast)

	default:
		// A plain sequential edge owns no single statement.
		return failed(ErrAmbiguousStatement)
	}
}

func (h *Handler) removeStatement(id string, ast *script.Script) Result {
	body, i := ast.Container(id)
	if body == nil {
		return failed(fmt.Errorf("%w: statement %s not found", ErrAmbiguousStatement, id))
	}
	h.snapshot(ast)
	script.Remove(body, i)
	h.invalidate()
	return succeeded()
}

// DeleteNode removes a node from whichever store holds it. A pending node
// simply leaves the pool; a committed node's backing statement (a scene
// node's whole label, body included) is spliced out of the tree. All edges
// referencing the node are dropped from the graph.
func (h *Handler) DeleteNode(nodeID string, g *Graph, ast *script.Script) Result {
	res := h.deleteNode(nodeID, g, ast)
	h.report("delete", res)
	return res
}

func (h *Handler) deleteNode(nodeID string, g *Graph, ast *script.Script) Result {
	if h.pool.IsPending(nodeID) {
		h.pool.Remove(nodeID)
		g.RemoveNode(nodeID)
		return succeeded()
	}
	body, i := ast.Container(nodeID)
	if body == nil {
		return failed(fmt.Errorf("%w: unknown node %s", ErrInvalidConnection, nodeID))
	}
	h.snapshot(ast)
	script.Remove(body, i)
	g.RemoveNode(nodeID)
	h.invalidate()
	return succeeded()
}

func (h *Handler) snapshot(ast *script.Script) {
	if h.history == nil {
		return
	}
	if blob, err := script.Encode(ast); err == nil {
		h.history.RecordSnapshot(h.path, blob)
	}
}

func (h *Handler) invalidate() {
	if h.cache != nil {
		h.cache.Invalidate(h.path)
	}
}

func (h *Handler) report(op string, res Result) {
	status := "ok"
	if !res.Success {
		status = "failed"
		h.log.Warn("operation failed", slog.String("op", op), slog.String("err", res.Error))
	}
	metrics.NodeOperations.WithLabelValues(op, status).Inc()
}

// mergeData overlays non-zero override fields onto type defaults.
func mergeData(def, o Data) Data {
	out := def
	if o.Label != "" {
		out.Label = o.Label
	}
	if o.Speaker != "" {
		out.Speaker = o.Speaker
	}
	if o.Text != "" {
		out.Text = o.Text
	}
	if o.Target != "" {
		out.Target = o.Target
	}
	if o.Statement != "" {
		out.Statement = o.Statement
	}
	if len(o.Choices) > 0 {
		out.Choices = o.Choices
	}
	if len(o.Branches) > 0 {
		out.Branches = o.Branches
	}
	if len(o.Lines) > 0 {
		out.Lines = o.Lines
	}
	return out
}
