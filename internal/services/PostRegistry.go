package services

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/models"
	"mafiabot/internal/platform"
	"mafiabot/internal/providers"
	"mafiabot/internal/storage"
	"mafiabot/internal/structures"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type postSet map[string]models.Post

// PostRegistry keeps the timed posts shown in the bot status. Readers see an
// immutable snapshot which is replaced only after the file write succeeded.
type PostRegistry struct {
	mu          sync.Mutex
	snapshot    atomic.Pointer[postSet]
	file        *storage.PostsFile
	platform    platform.Platform
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	delimiter   string
	maxLen      int
	defaultText string
	now         func() time.Time
}

func NewPostRegistry(conf *structures.Config, p platform.Platform, stores *storage.Stores, logger providers.Logger, metrics providers.MetricsProviderInterface) (*PostRegistry, error) {
	r := &PostRegistry{
		file:        stores.Posts,
		platform:    p,
		logger:      logger,
		metrics:     metrics,
		delimiter:   conf.Status.Delimiter,
		maxLen:      conf.Status.MaxLength,
		defaultText: conf.Status.DefaultText,
		now:         time.Now,
	}

	posts, err := r.file.Load()
	if err != nil {
		var missing *storage.StorageMissingError
		if !errors.As(err, &missing) {
			return nil, fmt.Errorf("load posts: %w", err)
		}
		logger.Warnf(providers.TypePosts, "Posts file %s missing, starting empty", r.file.Path())
	}
	r.swap(posts)
	return r, nil
}

func (r *PostRegistry) swap(posts map[string]models.Post) {
	set := make(postSet, len(posts))
	for k, v := range posts {
		set[k] = v
	}
	r.snapshot.Store(&set)
	r.metrics.SetPostsTotal(len(set))
}

func (r *PostRegistry) current() postSet {
	if p := r.snapshot.Load(); p != nil {
		return *p
	}
	return postSet{}
}

func (r *PostRegistry) today() models.Date {
	return models.DateOf(r.now())
}

// Posts returns the registered posts ordered by end date.
func (r *PostRegistry) Posts() []models.Post {
	set := r.current()
	posts := make([]models.Post, 0, len(set))
	for _, p := range set {
		posts = append(posts, p)
	}
	models.SortPosts(posts)
	return posts
}

// Save inserts or replaces the post with the same name and republishes.
func (r *PostRegistry) Save(ctx context.Context, post models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	err := r.mutate(func(set postSet) (postSet, bool) {
		set[post.Name] = post
		return set, true
	})
	if err != nil {
		return err
	}
	r.logger.Infof(providers.TypePosts, "Saved post %q ending %s", post.Name, post.EndDate)
	r.publishQuietly(ctx)
	return nil
}

// Delete removes the named post and reports whether it existed.
func (r *PostRegistry) Delete(ctx context.Context, name string) (bool, error) {
	var existed bool
	err := r.mutate(func(set postSet) (postSet, bool) {
		_, existed = set[name]
		delete(set, name)
		return set, existed
	})
	if err != nil || !existed {
		return false, err
	}
	r.logger.Infof(providers.TypePosts, "Deleted post %q", name)
	r.publishQuietly(ctx)
	return true, nil
}

// Sweep removes posts whose end date lies before today and republishes.
func (r *PostRegistry) Sweep(ctx context.Context) ([]string, error) {
	today := r.today()
	var removed []string
	err := r.mutate(func(set postSet) (postSet, bool) {
		for name, p := range set {
			if p.Expired(today) {
				delete(set, name)
				removed = append(removed, name)
			}
		}
		return set, len(removed) > 0
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(removed)
	if len(removed) > 0 {
		r.logger.Infof(providers.TypePosts, "Swept %d expired posts: %v", len(removed), removed)
	}
	return removed, r.Publish(ctx)
}

var errUnchanged = errors.New("unchanged")

// mutate applies fn to the stored posts. When fn reports a change the result
// is written to disk and then published as the new snapshot.
func (r *PostRegistry) mutate(fn func(set postSet) (postSet, bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var saved postSet
	err := r.file.Update(func(stored map[string]models.Post) (map[string]models.Post, error) {
		next := make(postSet, len(stored))
		for k, v := range stored {
			next[k] = v
		}
		next, changed := fn(next)
		if !changed {
			return nil, errUnchanged
		}
		saved = next
		return next, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	r.swap(saved)
	return nil
}

// Compose renders the status text for the given moment.
func (r *PostRegistry) Compose(now time.Time) string {
	return models.ComposeStatus(r.Posts(), models.DateOf(now), r.delimiter, r.maxLen)
}

// Publish sets the "Playing" status to the composed text, or the default
// text while no posts exist.
func (r *PostRegistry) Publish(ctx context.Context) error {
	text := r.Compose(r.now())
	if len(r.current()) == 0 {
		text = models.Truncate(r.defaultText, r.maxLen)
	}
	if err := r.platform.SetStatus(ctx, text); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	r.logger.Debugf(providers.TypePosts, "Status set to %q", text)
	return nil
}

func (r *PostRegistry) publishQuietly(ctx context.Context) {
	if err := r.Publish(ctx); err != nil {
		r.logger.Warnf(providers.TypePosts, "Unable to publish status: %s", err)
	}
}
