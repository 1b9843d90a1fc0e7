package services

import apierrors "ecotrack/internal/errors"

// ErrDatasetNotLoaded is returned when a service has no table to serve
var ErrDatasetNotLoaded = apierrors.ErrDatasetNotLoaded
