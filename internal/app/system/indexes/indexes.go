// Package indexes reconciles the MongoDB indexes every store declares.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agribizboost/agriadmin/internal/app/store/activity"
	"github.com/agribizboost/agriadmin/internal/app/store/healthassessments"
	metricsstore "github.com/agribizboost/agriadmin/internal/app/store/metrics"
	"github.com/agribizboost/agriadmin/internal/app/store/refreshtokens"
	userstore "github.com/agribizboost/agriadmin/internal/app/store/users"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Desired returns the index set per collection.
func Desired() map[string][]mongo.IndexModel {
	out := map[string][]mongo.IndexModel{
		"users":              userstore.IndexModels(),
		"activity_logs":      activity.IndexModels(),
		"refresh_tokens":     refreshtokens.IndexModels(),
		"health_assessments": healthassessments.IndexModels(),
	}
	for coll, set := range metricsstore.IndexModels() {
		out[coll] = append(out[coll], set...)
	}
	return out
}

// EnsureAll reconciles every collection in Desired. Failures are collected
// per collection and returned together.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	desired := Desired()
	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []string
	for _, name := range names {
		r := &reconciler{coll: db.Collection(name), log: zap.L().With(zap.String("collection", name))}
		if err := r.run(ctx, desired[name]); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// existingIndex is the subset of listIndexes output the reconciler compares.
type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

type reconciler struct {
	coll     *mongo.Collection
	log      *zap.Logger
	existing map[string]existingIndex // key signature -> index
}

// run brings one collection's indexes in line with want. An index whose key
// pattern already exists is reused, renamed (drop + create) when only the
// name differs, or rebuilt when uniqueness differs.
func (r *reconciler) run(ctx context.Context, want []mongo.IndexModel) error {
	if err := r.load(ctx); err != nil {
		r.log.Warn("listing indexes failed; creating blindly", zap.Error(err))
	}

	var errs []string
	for _, m := range want {
		if err := r.ensure(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", r.coll.Name(), nameOf(m), err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (r *reconciler) load(ctx context.Context) error {
	r.existing = map[string]existingIndex{}
	cur, err := r.coll.Indexes().List(ctx)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			r.log.Warn("failed to decode existing index", zap.Error(err))
			continue
		}
		r.existing[keySig(idx.Key)] = idx
	}
	return cur.Err()
}

func (r *reconciler) ensure(ctx context.Context, m mongo.IndexModel) error {
	start := time.Now()
	sig := keySig(m.Keys.(bson.D))
	name, unique := nameOf(m), isUnique(m)
	log := r.log.With(zap.String("name", name), zap.String("keys", sig), zap.Bool("unique", unique))

	ex, found := r.existing[sig]
	switch {
	case found && boolVal(ex.Unique) == unique && (name == "" || ex.Name == name):
		log.Debug("reusing existing index")
		return nil
	case found:
		log.Info("rebuilding index", zap.String("from", ex.Name))
		if err := r.rebuild(ctx, ex.Name, m); err != nil {
			return err
		}
	default:
		_, err := r.coll.Indexes().CreateOne(ctx, m)
		if err != nil && !isOptionsConflictErr(err) {
			return r.explain(err, unique, sig)
		}
		if err != nil {
			// Same keys under another name that listing missed.
			if lerr := r.load(ctx); lerr != nil {
				return err
			}
			ex, found = r.existing[sig]
			if !found {
				return err
			}
			if err := r.rebuild(ctx, ex.Name, m); err != nil {
				return err
			}
		}
	}

	r.existing[sig] = existingIndex{Name: name, Key: m.Keys.(bson.D), Unique: &unique}
	log.Info("index ensured", zap.Duration("took", time.Since(start)))
	return nil
}

func (r *reconciler) rebuild(ctx context.Context, old string, m mongo.IndexModel) error {
	if _, err := r.coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, m); err != nil {
		return r.explain(err, isUnique(m), keySig(m.Keys.(bson.D)))
	}
	return nil
}

func (r *reconciler) explain(err error, unique bool, sig string) error {
	if unique && isDuplicateKeyErr(err) {
		return fmt.Errorf("cannot create unique index (duplicates present)%s", dupHint(r.coll.Name(), sig))
	}
	return err
}

/* ------------------------------- helpers ---------------------------------- */

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func nameOf(m mongo.IndexModel) string {
	if m.Options != nil && m.Options.Name != nil {
		return *m.Options.Name
	}
	return ""
}

func isUnique(m mongo.IndexModel) bool {
	return m.Options != nil && boolVal(m.Options.Unique)
}

func boolVal(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if wafflemongo.IsDup(err) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func isOptionsConflictErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 85 || ce.Code == 86) {
		return true
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") || strings.Contains(err.Error(), "IndexKeySpecsConflict")
}

// dupHint names the aggregation that finds offending rows.
func dupHint(coll, sig string) string {
	if coll == "users" && strings.Contains(sig, "phone_number:1") {
		return ": duplicates exist on users.phone_number. Find them with\n" +
			`db.users.aggregate([{ $group: { _id: "$phone_number", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}
