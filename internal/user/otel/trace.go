package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/bookstore/internal/common/constants"
)

var Tracer trace.Tracer = otel.Tracer(constants.APP_STOREFRONT)
