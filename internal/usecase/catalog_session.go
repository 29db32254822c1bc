package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"admin_console/internal/domain"
	"admin_console/pkg/csvlist"
	"admin_console/pkg/productid"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type CatalogState string

const (
	CatalogIdle       CatalogState = "idle"
	CatalogDrafting   CatalogState = "drafting"
	CatalogSubmitting CatalogState = "submitting"
)

const deletePrompt = "Are you sure you want to delete this product?"

type CatalogOptions struct {
	PageSize int
	// ReloadOnCancel refetches the product list when a draft is cancelled.
	ReloadOnCancel bool
	// ResetPageOnFilter moves the page cursor back to 1 whenever the filter changes.
	ResetPageOnFilter bool
	// UploadConcurrency bounds AddAssets. Zero or less means one upload at a time.
	UploadConcurrency int
	IDSeed            string
}

// CatalogSession owns the in-memory product list, the edit draft and the list cursors.
// The lock is never held across a gateway call.
type CatalogSession struct {
	gateway   domain.CatalogGateway
	notifier  domain.Notifier
	allocator productid.Allocator
	validate  *validator.Validate
	opts      CatalogOptions
	log       *logrus.Logger

	mu         sync.Mutex
	state      CatalogState
	products   []domain.Product
	draft      *domain.Draft
	query      CatalogQuery
	loadSeq    uint64
	appliedSeq uint64
}

func NewCatalogSession(gateway domain.CatalogGateway, notifier domain.Notifier, opts CatalogOptions, logger *logrus.Logger) *CatalogSession {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 1
	}
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	return &CatalogSession{
		gateway:   gateway,
		notifier:  notifier,
		allocator: productid.Allocator{Seed: opts.IDSeed},
		validate:  newValidator(),
		opts:      opts,
		log:       logger,
		state:     CatalogIdle,
		products:  []domain.Product{},
		query:     CatalogQuery{Page: 1, PageSize: opts.PageSize},
	}
}

// Reload replaces the product list with the store's. On failure the previous list stays.
// When reloads overlap, a slower older response never overwrites a newer one.
func (s *CatalogSession) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	products, err := s.gateway.List(ctx)
	if err != nil {
		s.mu.Lock()
		stale := seq < s.appliedSeq
		s.mu.Unlock()
		if stale {
			s.log.Debugf("Catalog Session: Ignoring failed stale reload %d: %v", seq, err)
			return nil
		}
		s.log.Warnf("Catalog Session: Reload failed, keeping %d cached products: %v", len(s.Products()), err)
		s.fail("Failed to fetch products", err)
		return fmt.Errorf("reload products: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedSeq {
		s.log.Debugf("Catalog Session: Dropping stale product list (load %d, applied %d)", seq, s.appliedSeq)
		return nil
	}
	s.appliedSeq = seq
	s.products = make([]domain.Product, len(products))
	for i, p := range products {
		s.products[i] = p.Clone()
	}
	s.log.Infof("Catalog Session: Loaded %d products", len(products))
	if n := len(products); n > 0 && !productid.Valid(products[n-1].ProductID) {
		s.log.Warnf("Catalog Session: Last product ID '%s' cannot be incremented, new products will be refused", products[n-1].ProductID)
	}
	return nil
}

// StartCreate opens an empty draft with the identifier following the last product of
// the most recent load.
func (s *CatalogSession) StartCreate() (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == CatalogSubmitting {
		return nil, domain.ErrSubmitInProgress
	}

	lastID := ""
	if n := len(s.products); n > 0 {
		lastID = s.products[n-1].ProductID
	}
	id, err := s.allocator.Next(lastID)
	if err != nil {
		merr := &domain.MalformedIdentifierError{Value: lastID, Err: err}
		s.log.Errorf("Catalog Session: Cannot allocate product ID after '%s': %v", lastID, err)
		s.notifier.Notify(domain.Notification{Level: domain.NotifyError, Message: "Cannot allocate a product ID: " + merr.Error()})
		return nil, merr
	}

	s.draft = &domain.Draft{
		Product: domain.Product{
			ProductID: id,
			Category:  domain.CategoryWomen,
		},
		Images:     []string{},
		Generation: uuid.NewString(),
	}
	s.state = CatalogDrafting
	s.log.Infof("Catalog Session: Started new product draft %s", id)
	d := s.draft.Clone()
	return &d, nil
}

// StartEdit opens a draft for the loaded product with the given storage ID.
func (s *CatalogSession) StartEdit(storageID string) (*domain.Draft, error) {
	s.mu.Lock()
	var found *domain.Product
	for i := range s.products {
		if s.products[i].StorageID == storageID {
			p := s.products[i].Clone()
			found = &p
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return nil, fmt.Errorf("product %s: %w", storageID, domain.ErrNotFound)
	}
	return s.StartEditProduct(*found)
}

func (s *CatalogSession) StartEditProduct(product domain.Product) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == CatalogSubmitting {
		return nil, domain.ErrSubmitInProgress
	}

	p := product.Clone()
	p.DiscountPercentage = domain.DiscountPercentage(p.Price, p.OriginalPrice)
	images := p.Images
	if images == nil {
		images = []string{}
	}
	s.draft = &domain.Draft{
		Product:    p,
		ColorsText: csvlist.Format(p.Colors),
		TagsText:   csvlist.Format(p.Tags),
		Editing:    true,
		Images:     append([]string(nil), images...),
		Generation: uuid.NewString(),
	}
	s.state = CatalogDrafting
	s.log.Infof("Catalog Session: Editing product %s (storage ID %s)", p.ProductID, p.StorageID)
	d := s.draft.Clone()
	return &d, nil
}

// SetPricing updates the draft's price pair and returns the re-derived discount.
func (s *CatalogSession) SetPricing(price, originalPrice *float64) (*int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, domain.ErrNoDraft
	}
	if s.state == CatalogSubmitting {
		return nil, domain.ErrSubmitInProgress
	}
	s.draft.Product.SetPricing(price, originalPrice)
	if d := s.draft.Product.DiscountPercentage; d != nil {
		v := *d
		return &v, nil
	}
	return nil, nil
}

// AddAsset uploads one image and appends its URL to the draft's accumulator.
// A result arriving after the draft was closed or replaced, or while the draft is
// being submitted, is discarded and reported as an error.
func (s *CatalogSession) AddAsset(ctx context.Context, asset domain.Asset) (string, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return "", domain.ErrNoDraft
	}
	if s.state == CatalogSubmitting {
		s.mu.Unlock()
		return "", domain.ErrSubmitInProgress
	}
	generation := s.draft.Generation
	s.mu.Unlock()

	url, err := s.gateway.UploadAsset(ctx, asset)
	if err != nil {
		s.log.Warnf("Catalog Session: Upload of '%s' failed: %v", asset.Filename, err)
		s.fail("Upload failed", err)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || s.draft.Generation != generation {
		s.log.Infof("Catalog Session: Discarding late upload %s, its draft is gone", url)
		return "", fmt.Errorf("upload of %s finished after its draft closed: %w", asset.Filename, domain.ErrNoDraft)
	}
	if s.state == CatalogSubmitting {
		s.log.Warnf("Catalog Session: Discarding upload %s, draft %s is being submitted", url, s.draft.Product.ProductID)
		s.notifier.Notify(domain.Notification{Level: domain.NotifyError, Message: "Image " + asset.Filename + " was not added: the product is being saved"})
		return "", fmt.Errorf("upload of %s finished during submit: %w", asset.Filename, domain.ErrSubmitInProgress)
	}
	s.draft.Images = append(s.draft.Images, url)
	s.log.Infof("Catalog Session: Added image %s to draft %s", url, s.draft.Product.ProductID)
	return url, nil
}

// AddAssets uploads several images concurrently. URLs land in the accumulator in
// completion order. Successful uploads are kept even when another one fails; the
// first failure is returned.
func (s *CatalogSession) AddAssets(ctx context.Context, assets []domain.Asset) ([]string, error) {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		urls []string
	)
	g.SetLimit(s.opts.UploadConcurrency)
	for _, asset := range assets {
		asset := asset
		g.Go(func() error {
			url, err := s.AddAsset(ctx, asset)
			if err != nil {
				return err
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return urls, err
}

// RemoveAsset drops url from the accumulator. No remote call is made.
func (s *CatalogSession) RemoveAsset(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return domain.ErrNoDraft
	}
	if s.state == CatalogSubmitting {
		return domain.ErrSubmitInProgress
	}
	kept := s.draft.Images[:0:0]
	for _, img := range s.draft.Images {
		if img != url {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(s.draft.Images) {
		return fmt.Errorf("image %s: %w", url, domain.ErrNotFound)
	}
	s.draft.Images = kept
	return nil
}

// Submit validates form, merges it with the draft and saves it. On success the draft is
// cleared and the list reloaded; on failure the draft is left exactly as it was.
func (s *CatalogSession) Submit(ctx context.Context, form domain.ProductForm) (*domain.Product, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoDraft
	}
	if s.state == CatalogSubmitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}
	if err := s.validate.Struct(form); err != nil {
		s.mu.Unlock()
		verr := formError("submit product", err)
		s.log.Warnf("Catalog Session: Rejected product form: %v", verr)
		s.fail("Invalid product", verr)
		return nil, verr
	}

	outbound := buildProduct(*s.draft, form)
	editing := s.draft.Editing
	storageID := s.draft.Product.StorageID
	generation := s.draft.Generation
	s.state = CatalogSubmitting
	s.mu.Unlock()

	var (
		saved *domain.Product
		err   error
	)
	if editing {
		s.log.Infof("Catalog Session: Updating product %s", outbound.ProductID)
		saved, err = s.gateway.Update(ctx, storageID, outbound)
	} else {
		s.log.Infof("Catalog Session: Creating product %s", outbound.ProductID)
		saved, err = s.gateway.Create(ctx, outbound)
	}

	s.mu.Lock()
	if err != nil {
		if s.draft != nil && s.draft.Generation == generation {
			s.state = CatalogDrafting
		}
		s.mu.Unlock()
		s.log.Errorf("Catalog Session: Saving product %s failed: %v", outbound.ProductID, err)
		if editing {
			s.fail("Failed to update product", err)
		} else {
			s.fail("Failed to save product", err)
		}
		return nil, err
	}
	if s.draft != nil && s.draft.Generation == generation {
		s.draft = nil
		s.state = CatalogIdle
	}
	s.mu.Unlock()

	if editing {
		s.notifier.Notify(domain.Notification{Level: domain.NotifySuccess, Message: "Product updated"})
	} else {
		s.notifier.Notify(domain.Notification{Level: domain.NotifySuccess, Message: "Product added"})
	}
	// The save already succeeded; a failed reload is reported by Reload itself.
	_ = s.Reload(ctx)

	if saved == nil {
		saved = &outbound
	}
	return saved, nil
}

func buildProduct(draft domain.Draft, form domain.ProductForm) domain.Product {
	sizes, _ := domain.NormalizeSizes(form.Sizes)
	p := domain.Product{
		StorageID:   draft.Product.StorageID,
		ProductID:   draft.Product.ProductID,
		Title:       strings.TrimSpace(form.Title),
		Category:    form.Category,
		SubCategory: form.SubCategory,
		Exclusive:   form.Exclusive,
		BestSeller:  form.BestSeller,
		NewArrival:  form.NewArrival,
		Stock:       *form.Stock,
		Sizes:       sizes,
		Colors:      csvlist.Parse(form.Colors),
		Fabric:      strings.TrimSpace(form.Fabric),
		Description: form.Description,
		Details:     form.Details,
		Tags:        csvlist.Parse(form.Tags),
		Images:      append([]string{}, draft.Images...),
	}
	p.SetPricing(form.Price, form.OriginalPrice)
	return p
}

// Cancel discards the draft and its accumulator. Uploads still in flight for it
// are dropped when they return.
func (s *CatalogSession) Cancel(ctx context.Context) error {
	s.mu.Lock()
	if s.state == CatalogSubmitting {
		s.mu.Unlock()
		return domain.ErrSubmitInProgress
	}
	if s.draft != nil {
		s.log.Infof("Catalog Session: Cancelled draft %s", s.draft.Product.ProductID)
	}
	s.draft = nil
	s.state = CatalogIdle
	s.mu.Unlock()

	if s.opts.ReloadOnCancel {
		// A failed reload is already reported; the draft is gone either way.
		_ = s.Reload(ctx)
	}
	return nil
}

// Remove deletes a product after the operator confirms. It reports whether a delete
// was performed; a declined confirmation is not an error.
func (s *CatalogSession) Remove(ctx context.Context, storageID string, confirm domain.Confirmer) (bool, error) {
	if confirm == nil {
		return false, errors.New("remove product: no confirmation capability")
	}
	ok, err := confirm.Confirm(ctx, deletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		s.log.Infof("Catalog Session: Delete of %s declined", storageID)
		return false, nil
	}

	if err := s.gateway.Delete(ctx, storageID); err != nil {
		s.log.Errorf("Catalog Session: Delete of %s failed: %v", storageID, err)
		s.fail("Failed to delete product", err)
		return false, err
	}
	s.log.Infof("Catalog Session: Deleted product %s", storageID)
	s.notifier.Notify(domain.Notification{Level: domain.NotifySuccess, Message: "Product deleted"})
	_ = s.Reload(ctx)
	return true, nil
}

// SetFilter replaces the list filter.
func (s *CatalogSession) SetFilter(filter CatalogFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.ResetPageOnFilter && filter != s.query.Filter {
		s.query.Page = 1
	}
	s.query.Filter = filter
}

func (s *CatalogSession) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.query.Page = page
	s.mu.Unlock()
}

func (s *CatalogSession) SetSort(spec SortSpec) error {
	if !spec.Field.Valid() {
		return &domain.ValidationError{Op: "sort products", Message: fmt.Sprintf("cannot sort by %q", spec.Field)}
	}
	s.mu.Lock()
	s.query.Sort = spec
	s.mu.Unlock()
	return nil
}

// View recomputes the visible page from the current list and cursors.
func (s *CatalogSession) View() CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildCatalogView(s.products, s.query)
}

func (s *CatalogSession) Query() CatalogQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *CatalogSession) State() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the active draft, or nil when idle.
func (s *CatalogSession) Draft() *domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	d := s.draft.Clone()
	return &d
}

func (s *CatalogSession) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *CatalogSession) fail(prefix string, err error) {
	msg := prefix
	if detail := domain.UserMessage(err); detail != "" && detail != prefix {
		msg = prefix + ": " + detail
	}
	s.notifier.Notify(domain.Notification{Level: domain.NotifyError, Message: msg})
}
