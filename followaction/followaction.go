// Package followaction implements the follow action F (spec.md §4.2): the
// stateful subsystem owning the degree-stratified bin index and the five
// follow-strategy models, subscribed to the graph's grown and
// connection_added signals. It is grounded directly on
// _examples/original_source/include/hashkat/actions/twitter_follow_st.hpp
// (init_slots/init_follow_models/init_bins, the five *_follow_model methods,
// agent_added, update_bins) and on action_st.hpp for the init/post_init/
// reset/update_weight/operator() contract, reexpressed as the engine.Action
// interface.
package followaction

import (
	"fmt"
	"math"
	"math/rand"

	"hashkat/agenttype"
	"hashkat/atomicfloat"
	"hashkat/config"
	"hashkat/engine"
	"hashkat/graph"
	"hashkat/idset"
	"hashkat/report"
	"hashkat/rng"
)

// approxMonth is the simulated-minutes length of one month (30 days),
// spec.md §4.2 "approx_month = 30·24·60 minutes".
const approxMonth = 30 * 24 * 60

// Follow-model indices, spec.md §4.2.3. Slots 5 (Retweet) and 6 (Followbacks)
// of the per-agent method counters are reserved and never incremented by
// this action (spec.md §3 "the last two unused").
const (
	methodRandom = iota
	methodTwitterSuggest
	methodAgent
	methodPreferentialAgent
	methodHashtag
)

// FollowAction is the engine.Action owning the bin index (spec.md §3 "Bin
// Index B", "owned by F").
type FollowAction struct {
	engine.Signals

	graph    *graph.Graph
	cfg      *config.Store
	rng      *rand.Rand
	clock    *engine.Clock
	registry *engine.RegistryHolder

	folder string

	// bin index
	maxAgents int
	binW      []float64
	bins      []*idset.Set
	binOf     map[int]int
	kmax      int

	// follow model dispatch
	composite           bool
	fixedMethod          int
	modelWeights         [5]float64
	monthlyReferralRate  []float64

	// per-type per-month population
	atAgentsPerMonth [][]int

	// per-agent method counters, indexed by agent id
	asFollowerCounts [][7]int
	asFolloweeCounts [][7]int

	// aggregate counters
	followModelsCount [7]int
	atFollowsCount    []int

	weight       *atomicfloat.Float64
	rate         int
	connections  int
}

// Init resolves bin/model configuration, builds the agent-type registry
// (spec.md §4.2 "builds R from all agents entries... because §4.3 assigns
// indices in [reverse declaration] order"), and subscribes to the graph's
// grown/connection_added signals.
func (a *FollowAction) Init(deps engine.Deps) error {
	a.graph = deps.Graph
	a.cfg = deps.Config
	a.rng = deps.Rng
	a.clock = deps.Clock
	a.registry = deps.Registry
	a.binOf = make(map[int]int)
	a.folder = deps.Config.GetString("output.folder", ".")
	a.maxAgents = deps.Config.GetInt("hashkat.network.max_agents", 1000)
	a.weight = atomicfloat.New(0)

	a.initBins()
	a.initFollowModels()

	reg, err := agenttype.Build(deps.Config)
	if err != nil {
		return fmt.Errorf("followaction: build registry: %w", err)
	}
	a.registry.Registry = reg

	numTypes := reg.Len()
	maxTime := deps.Config.GetFloat64("analysis.max_time", 1000)
	mmax := int(math.Ceil(maxTime / approxMonth))
	a.atAgentsPerMonth = make([][]int, numTypes)
	for t := 0; t < numTypes; t++ {
		a.atAgentsPerMonth[t] = make([]int, mmax+1)
	}
	a.atFollowsCount = make([]int, numTypes)

	a.monthlyReferralRate = make([]float64, mmax+1)
	for m := 0; m <= mmax; m++ {
		a.monthlyReferralRate[m] = 1.0 / float64(1+m)
	}

	deps.Graph.OnGrown(a.agentAdded)
	deps.Graph.OnConnectionAdded(a.updateBins)

	return nil
}

// initBins builds the bin layout (spec.md §3 "Bin parameters derive from
// config"), grounded on init_bins in twitter_follow_st.hpp.
func (a *FollowAction) initBins() {
	spacing := a.cfg.GetFloat64("follow_ranks.weights.bin_spacing", 1)
	min := a.cfg.GetFloat64("follow_ranks.weights.min", 1)
	max := a.cfg.GetFloat64("follow_ranks.weights.max", float64(a.maxAgents+1))
	inc := a.cfg.GetFloat64("follow_ranks.weights.increment", 1)
	exp := a.cfg.GetFloat64("follow_ranks.weights.exponent", 1.0)

	for i := 1.0; i < spacing; i++ {
		inc *= inc
	}

	k := int(math.Floor((max-min)/inc)) + 1
	if k < 1 {
		k = 1
	}

	a.bins = make([]*idset.Set, k)
	a.binW = make([]float64, k)
	total := 0.0
	for i := 0; i < k; i++ {
		a.bins[i] = idset.New()
		a.binW[i] = math.Pow(min+float64(i)*inc, exp)
		total += a.binW[i]
	}
	if total > 0 {
		for i := range a.binW {
			a.binW[i] /= total
		}
	}
	a.kmax = 0
}

// initFollowModels resolves the configured follow model and, for the
// composite "twitter" dispatcher, its five sub-model weights (spec.md
// §4.2.3).
func (a *FollowAction) initFollowModels() {
	model := a.cfg.GetString("analysis.follow_model", "twitter")
	switch model {
	case "random":
		a.fixedMethod = methodRandom
	case "twitter_suggest":
		a.fixedMethod = methodTwitterSuggest
	case "agent":
		a.fixedMethod = methodAgent
	case "preferential_agent":
		a.fixedMethod = methodPreferentialAgent
	case "hashtag":
		a.fixedMethod = methodHashtag
	case "twitter":
		a.composite = true
	default:
		a.fixedMethod = methodRandom
	}

	if a.composite {
		a.modelWeights[methodRandom] = a.cfg.GetFloat64("analysis.model_weights.random", 1)
		a.modelWeights[methodTwitterSuggest] = a.cfg.GetFloat64("analysis.model_weights.twitter_suggest", 1)
		a.modelWeights[methodAgent] = a.cfg.GetFloat64("analysis.model_weights.agent", 1)
		a.modelWeights[methodPreferentialAgent] = a.cfg.GetFloat64("analysis.model_weights.preferential_agent", 1)
		a.modelWeights[methodHashtag] = a.cfg.GetFloat64("analysis.model_weights.hashtag", 1)
	}
}

// PostInit zeroes the rate, weight, and connection counter (spec.md §4.2).
func (a *FollowAction) PostInit() {
	a.rate = 0
	a.weight.Store(0)
	a.connections = 0
}

// Reset clears the bin index and rebuilds it, zeroes population/counter
// state, and calls PostInit (spec.md §4.2 "clear B and W, rebuild bins, call
// post_init").
func (a *FollowAction) Reset() error {
	a.binOf = make(map[int]int)
	a.initBins()

	for t := range a.atAgentsPerMonth {
		for m := range a.atAgentsPerMonth[t] {
			a.atAgentsPerMonth[t][m] = 0
		}
	}
	for t := range a.atFollowsCount {
		a.atFollowsCount[t] = 0
	}
	a.asFollowerCounts = nil
	a.asFolloweeCounts = nil
	a.followModelsCount = [7]int{}

	a.PostInit()
	return nil
}

// UpdateWeight recomputes F's selection weight (spec.md §4.2 "update_weight:
// compute current weight as..."). The "zero add rate" branch is gated on the
// add-agent action's configured rate, read directly from shared config
// rather than from the AddAgent instance (spec.md §3 "R is owned by E and
// borrowed by F and A" keeps actions from depending on one another).
func (a *FollowAction) UpdateWeight() {
	reg := a.registry.Registry
	month := int(math.Floor(a.clock.Time() / approxMonth))
	addRateZero := a.cfg.GetFloat64("rates.add.value", 1.0) == 0

	total := 0.0
	for t := 0; t < reg.Len(); t++ {
		typ := reg.At(t)
		if addRateZero {
			total += float64(a.graph.Count(t)) * typ.MonthlyFollowWeight(month)
			continue
		}
		pop := 0
		if month >= 0 && month < len(a.atAgentsPerMonth[t]) {
			pop = a.atAgentsPerMonth[t][month]
		}
		total += float64(pop) * typ.MonthlyFollowWeight(month)
	}
	a.weight.Store(total)
}

// Weight returns F's cached selection weight.
func (a *FollowAction) Weight() float64 { return a.weight.Load() }

// Name identifies the action for logging and reports.
func (a *FollowAction) Name() string { return "follow" }

// Invoke performs one do_action (spec.md §4.2.1).
func (a *FollowAction) Invoke() {
	a.extendHorizonIfNeeded()

	u, ok := a.selectFollower()
	if !ok {
		a.EmitFinished()
		return
	}

	v, method, ok := a.selectFollowee(u)
	if !ok {
		a.EmitFinished()
		return
	}

	connected, err := a.graph.Connect(v, u)
	if err != nil {
		panic(fmt.Sprintf("followaction: invariant violation: connect(%d,%d): %v", v, u, err))
	}
	if connected {
		a.atFollowsCount[a.graph.AgentType(u)]++
		a.asFolloweeCounts[v][method]++
		a.asFollowerCounts[u][method]++
		a.EmitHappened()
	}
	a.EmitFinished()
}

// extendHorizonIfNeeded extends every type's per-month population slice when
// simulated time has advanced past the tabulated horizon (spec.md §4.2.1
// step 1), dumping the now-final degree distributions for the month that
// just closed.
func (a *FollowAction) extendHorizonIfNeeded() {
	if len(a.atAgentsPerMonth) == 0 {
		return
	}
	currentMonth := int(math.Floor(a.clock.Time() / approxMonth))
	for currentMonth >= len(a.atAgentsPerMonth[0]) {
		closedMonth := len(a.atAgentsPerMonth[0]) - 1
		for t := range a.atAgentsPerMonth {
			a.atAgentsPerMonth[t] = append(a.atAgentsPerMonth[t], 0)
		}
		if a.cfg.GetBool("output.degree_distributions", true) {
			_ = a.saveDegreeDistributions(closedMonth)
		}
	}
}

// saveDegreeDistributions writes the per-month degree-distribution report
// triple for the given month (spec.md §6, "out/in/cumulative-degree_
// distribution_month_<MMM>.dat"). Degrees are bucketed over every agent's
// current in/out-degree; this is a coarse behavioral rendering, not a
// verbatim reproduction of the original's histogram construction.
func (a *FollowAction) saveDegreeDistributions(month int) error {
	maxDegree := 0
	for id := 0; id < a.graph.Size(); id++ {
		if d := a.graph.FollowersSize(id); d > maxDegree {
			maxDegree = d
		}
		if d := a.graph.FolloweesSize(id); d > maxDegree {
			maxDegree = d
		}
	}
	outHist := make([]float64, maxDegree+1)
	inHist := make([]float64, maxDegree+1)
	n := a.graph.Size()
	for id := 0; id < n; id++ {
		outHist[a.graph.FolloweesSize(id)]++
		inHist[a.graph.FollowersSize(id)]++
	}
	cumHist := make([]float64, maxDegree+1)
	running := 0.0
	for d := 0; d <= maxDegree; d++ {
		running += inHist[d]
		cumHist[d] = running
	}
	if n > 0 {
		for d := 0; d <= maxDegree; d++ {
			outHist[d] /= float64(n)
			inHist[d] /= float64(n)
			cumHist[d] /= float64(n)
		}
	}
	return report.MonthlyDegreeDistributions(a.folder, month, outHist, inHist, cumHist)
}

// selectFollower draws a follower by the joint (type, month) weighted grid
// (spec.md §4.2.2).
func (a *FollowAction) selectFollower() (int, bool) {
	reg := a.registry.Registry

	var weights []float64
	var cellType, cellMonth []int
	for t := 0; t < reg.Len(); t++ {
		typ := reg.At(t)
		months := a.atAgentsPerMonth[t]
		for m := 0; m < len(months); m++ {
			if months[m] <= 0 {
				continue
			}
			weights = append(weights, typ.MonthlyFollowWeight(m)*typ.AddWeight)
			cellType = append(cellType, t)
			cellMonth = append(cellMonth, m)
		}
	}

	idx, ok := rng.SampleDiscrete(a.rng, weights)
	if !ok {
		return 0, false
	}
	t, m := cellType[idx], cellMonth[idx]

	prefix := 0
	for i := 0; i < m; i++ {
		prefix += a.atAgentsPerMonth[t][i]
	}
	offset, ok := rng.UniformInt(a.rng, a.atAgentsPerMonth[t][m])
	if !ok {
		return 0, false
	}
	return a.graph.AgentByType(t, prefix+offset)
}

// selectFollowee dispatches to the configured (or composite-drawn)
// follow model, recording an attempt for the method actually invoked
// regardless of outcome (spec.md §7 "follow_models_count... records
// attempts per method regardless of outcome"), and rejects a self-follow
// (spec.md §4.2.3 "If the result equals the follower, return FAIL").
func (a *FollowAction) selectFollowee(follower int) (followee int, method int, ok bool) {
	if a.composite {
		idx, chosen := rng.SampleDiscrete(a.rng, a.modelWeights[:])
		if !chosen {
			return 0, 0, false
		}
		method = idx
	} else {
		method = a.fixedMethod
	}

	a.followModelsCount[method]++

	var v int
	switch method {
	case methodRandom:
		v, ok = a.randomFollowModel()
	case methodTwitterSuggest:
		v, ok = a.twitterSuggestFollowModel(follower)
	default:
		// agent, preferential_agent, hashtag: reserved (spec.md §4.2.3).
		ok = false
	}
	if !ok {
		return 0, method, false
	}
	if v == follower {
		return 0, method, false
	}
	return v, method, true
}

func (a *FollowAction) randomFollowModel() (int, bool) {
	return rng.UniformInt(a.rng, a.graph.Size())
}

// twitterSuggestFollowModel gates on a recency-decaying referral rate before
// sampling a bin by W[k]*|B[k]| and returning a uniform member of that bin
// (spec.md §4.2.3).
func (a *FollowAction) twitterSuggestFollowModel(follower int) (int, bool) {
	binAge := int(math.Floor((a.clock.Time() - a.graph.CreationTime(follower)) / approxMonth))
	if binAge < 0 {
		binAge = 0
	}
	referralRate := 0.0
	if len(a.monthlyReferralRate) > 0 {
		if binAge < len(a.monthlyReferralRate) {
			referralRate = a.monthlyReferralRate[binAge]
		} else {
			referralRate = a.monthlyReferralRate[len(a.monthlyReferralRate)-1]
		}
	}
	if a.rng.Float64() >= referralRate {
		return 0, false
	}

	weights := make([]float64, a.kmax+1)
	for k := 0; k <= a.kmax; k++ {
		weights[k] = a.binW[k] * float64(a.bins[k].Len())
	}
	k, ok := rng.SampleDiscrete(a.rng, weights)
	if !ok {
		return 0, false
	}
	return a.bins[k].RandomMember(a.rng)
}

// agentAdded handles the graph's grown signal (spec.md §4.2.4 "On grown(i)").
func (a *FollowAction) agentAdded(id, agentType int) {
	a.bins[0].Add(id)
	a.binOf[id] = 0
	a.asFollowerCounts = append(a.asFollowerCounts, [7]int{})
	a.asFolloweeCounts = append(a.asFolloweeCounts, [7]int{})

	month := int(math.Floor(a.graph.CreationTime(id) / approxMonth))
	if agentType >= 0 && agentType < len(a.atAgentsPerMonth) {
		for month >= len(a.atAgentsPerMonth[agentType]) {
			a.atAgentsPerMonth[agentType] = append(a.atAgentsPerMonth[agentType], 0)
		}
		a.atAgentsPerMonth[agentType][month]++
	}
}

// updateBins handles the graph's connection_added signal (spec.md §4.2.4 "On
// connection_added(v,u)"), moving the followee between bins using the
// explicit binOf reverse map rather than scanning B[new_idx-1] for
// membership — this is the resolution to the "-1 underflow" defect the
// original update_bins could hit whenever a connection does not move an
// agent by exactly one bin (spec.md §9's resolved open question).
func (a *FollowAction) updateBins(followee, follower int) {
	k := len(a.bins)
	newIdx := int(math.Floor(float64(a.graph.FollowersSize(followee)) * float64(k) / float64(a.maxAgents)))
	if newIdx >= k {
		newIdx = k - 1
	}
	if newIdx < 0 {
		newIdx = 0
	}

	oldIdx, ok := a.binOf[followee]
	if !ok {
		panic(fmt.Sprintf("followaction: invariant violation: agent %d not found in bin index", followee))
	}

	if newIdx != oldIdx {
		a.bins[oldIdx].Remove(followee)
		a.bins[newIdx].Add(followee)
		a.binOf[followee] = newIdx
		if newIdx > a.kmax {
			a.kmax = newIdx
		}
	}

	a.rate++
	a.connections++
}

// BinSizes returns the current population of every bin, 0..K-1 — exposed for
// testing the bin invariants of spec.md §8.
func (a *FollowAction) BinSizes() []int {
	out := make([]int, len(a.bins))
	for i, b := range a.bins {
		out[i] = b.Len()
	}
	return out
}

// Kmax returns the highest bin index ever reached.
func (a *FollowAction) Kmax() int { return a.kmax }

// FollowModelCounts returns the attempt counter for each of the seven
// follow-method slots, indexed as report.MethodNames — exposed for live
// monitoring (dashboard.Snapshot).
func (a *FollowAction) FollowModelCounts() [7]int { return a.followModelsCount }

// Connections returns the total number of edges successfully added so far.
func (a *FollowAction) Connections() int { return a.connections }

// BinOf returns the current bin index of agent id, or -1 if id has no
// recorded bin (it has not yet been grown).
func (a *FollowAction) BinOf(id int) int {
	if idx, ok := a.binOf[id]; ok {
		return idx
	}
	return -1
}

// Dump writes every enabled report file (spec.md §6), gated by the
// "output.*" config toggles.
func (a *FollowAction) Dump(folder string) error {
	reg := a.registry.Registry

	if a.cfg.GetBool("output.main_statistics", true) {
		totalAttempts := 0
		for _, c := range a.followModelsCount {
			totalAttempts += c
		}
		totalFollows := 0
		for _, c := range a.atFollowsCount {
			totalFollows += c
		}
		var namesReverse []string
		var followsReverse []int
		for i := reg.Len() - 1; i >= 0; i-- {
			namesReverse = append(namesReverse, reg.At(i).Name)
			followsReverse = append(followsReverse, a.atFollowsCount[i])
		}
		if err := report.MainStats(folder, totalFollows, totalAttempts, a.followModelsCount, namesReverse, followsReverse); err != nil {
			return err
		}
	}

	if a.cfg.GetBool("output.categories_distro", true) {
		if err := report.CategoriesDistro(folder, a.BinSizes()); err != nil {
			return err
		}
	}

	if a.cfg.GetBool("output.degree_distribution_by_follow_model", true) {
		var probsByMethod [7][]float64
		for method := 0; method < 7; method++ {
			probsByMethod[method] = a.degreeProbabilitiesForMethod(method)
		}
		if err := report.DegreeDistroByFollowModel(folder, probsByMethod); err != nil {
			return err
		}
	}

	if a.cfg.GetBool("output.agent_stats", true) {
		for i := reg.Len() - 1; i >= 0; i-- {
			t := reg.At(i)
			followingPct, followedByPct, inProb, outProb, cumProb := a.typeStats(i)
			if err := report.TypeInfo(folder, t.Name, followingPct, followedByPct, inProb, outProb, cumProb); err != nil {
				return err
			}
		}
	}

	if a.cfg.GetBool("output.degree_distributions", true) {
		month := int(math.Floor(a.clock.Time() / approxMonth))
		if err := a.saveDegreeDistributions(month); err != nil {
			return err
		}
	}

	return nil
}

// degreeProbabilitiesForMethod builds the normalized in-degree histogram
// restricted to edges recorded under the given follow method.
func (a *FollowAction) degreeProbabilitiesForMethod(method int) []float64 {
	maxDegree := 0
	counts := make([]int, a.graph.Size())
	for id, c := range a.asFolloweeCounts {
		counts[id] = c[method]
		if counts[id] > maxDegree {
			maxDegree = counts[id]
		}
	}
	hist := make([]float64, maxDegree+1)
	for _, c := range counts {
		hist[c]++
	}
	n := float64(len(counts))
	if n > 0 {
		for i := range hist {
			hist[i] /= n
		}
	}
	return hist
}

// typeStats computes the following/followed-by percentage and per-degree
// in/out/cumulative probability vectors for one agent type.
func (a *FollowAction) typeStats(typeIdx int) (followingPct, followedByPct float64, inProb, outProb, cumProb []float64) {
	ids := make([]int, 0, a.graph.Count(typeIdx))
	for k := 0; ; k++ {
		id, ok := a.graph.AgentByType(typeIdx, k)
		if !ok {
			break
		}
		ids = append(ids, id)
	}

	maxDegree := 0
	for _, id := range ids {
		if d := a.graph.FollowersSize(id); d > maxDegree {
			maxDegree = d
		}
		if d := a.graph.FolloweesSize(id); d > maxDegree {
			maxDegree = d
		}
	}

	inProb = make([]float64, maxDegree+1)
	outProb = make([]float64, maxDegree+1)
	totalFollowing, totalFollowedBy := 0, 0
	for _, id := range ids {
		in, out := a.graph.FollowersSize(id), a.graph.FolloweesSize(id)
		inProb[in]++
		outProb[out]++
		totalFollowedBy += in
		totalFollowing += out
	}
	n := float64(len(ids))
	if n > 0 {
		for i := range inProb {
			inProb[i] /= n
			outProb[i] /= n
		}
		followingPct = 100 * float64(totalFollowing) / (n * float64(a.graph.Size()))
		followedByPct = 100 * float64(totalFollowedBy) / (n * float64(a.graph.Size()))
	}

	cumProb = make([]float64, maxDegree+1)
	running := 0.0
	for d := 0; d <= maxDegree; d++ {
		running += inProb[d]
		cumProb[d] = running
	}
	return
}
