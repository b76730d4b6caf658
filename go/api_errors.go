package cartserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// cartProblemMapper translates cart operation errors into problem details carrying the
// shopper-facing notification text.
func cartProblemMapper(catalog notifications.Catalog) apierrors.ErrorMapper {
	if catalog == nil {
		catalog = notifications.CatalogFor(notifications.LocaleEnglish)
	}
	return func(err error) (apierrors.ProblemDetail, bool) {
		var opErr *cartapp.OperationError
		if !errors.As(err, &opErr) {
			return apierrors.ProblemDetail{}, false
		}
		var problem apierrors.ProblemDetail
		switch {
		case opErr.Kind == cartapp.KindStockExceeded:
			problem = apierrors.ErrStockExceeded
		case opErr.Kind == cartapp.KindNotInCart:
			problem = apierrors.NewNotFoundProblem("cart item", opErr.ProductID)
		case errors.Is(err, cartports.ErrProductNotFound):
			problem = apierrors.NewNotFoundProblem("product", opErr.ProductID)
		case opErr.Kind == cartapp.KindInventory:
			problem = apierrors.ErrBadGateway
		case opErr.Kind == cartapp.KindStorage:
			problem = apierrors.ErrServiceUnavailable
		default:
			problem = apierrors.ErrInternal
		}
		if problem.Detail == "" {
			problem = problem.WithDetail(err.Error())
		}
		kind := notifications.KindFor(err)
		return problem.
			WithExtension("operation", string(opErr.Op)).
			WithExtension("kind", string(opErr.Kind)).
			WithExtension("notification", catalog.Message(kind)), true
	}
}
