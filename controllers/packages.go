package controllers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/service"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateService adds a catalog service.
func CreateService(c *gin.Context) {
	var input models.ServiceCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	services := repository.Collection(repository.ServicesCollection)

	slug, err := service.UniqueSlug(input.Name, func(candidate string) (bool, error) {
		count, err := services.CountDocuments(ctx, bson.M{"slug": candidate})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"name": input.Name})
		return
	}

	now := time.Now()
	svc := models.Service{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	inserted, err := services.InsertOne(ctx, svc)
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"name": input.Name})
		return
	}
	if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid
	}

	c.JSON(http.StatusCreated, models.OKResult("Service created.", svc))
}

// GetServices lists catalog services with their packages in display order.
func GetServices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := repository.Collection(repository.ServicesCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "services": services})
}

// GetServiceDetail returns one service and its ordered packages.
func GetServiceDetail(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	packages, err := servicePackages(ctx, svc.ID.Hex())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "service": svc, "packages": packages})
}

// DeleteService removes a service and its packages.
func DeleteService(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.ServicesCollection).
			DeleteOne(sc, bson.M{"_id": svc.ID}); err != nil {
			return nil, err
		}
		_, err := repository.Collection(repository.ServicePackagesCollection).
			DeleteMany(sc, bson.M{"serviceId": svc.ID.Hex()})
		return nil, err
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"serviceId": svc.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Service deleted.", nil))
}

// servicePackages reads one service's packages in display order.
func servicePackages(ctx context.Context, serviceID string) ([]models.ServicePackage, error) {
	cursor, err := repository.Collection(repository.ServicePackagesCollection).Find(ctx,
		bson.M{"serviceId": serviceID},
		options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var packages []models.ServicePackage
	if err = cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func packageFlags(packages []models.ServicePackage) []service.PackageFlags {
	flags := make([]service.PackageFlags, 0, len(packages))
	for _, p := range packages {
		flags = append(flags, service.PackageFlags{
			ID:            p.ID.Hex(),
			Name:          p.Name,
			IsRecommended: p.IsRecommended,
			IsFeatured:    p.IsFeaturedOnLanding,
			Price:         p.Price,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return flags
}

func packageOrderScope(packages []models.ServicePackage) []service.OrderedItem {
	items := make([]service.OrderedItem, 0, len(packages))
	for _, p := range packages {
		items = append(items, service.OrderedItem{ID: p.ID.Hex(), SortOrder: p.SortOrder})
	}
	return items
}

// clearFlags applies the demotions the uniqueness planners produced, in the
// same transaction as the triggering write.
func clearFlags(sc mongo.SessionContext, ids []string, field string) error {
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		if _, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(sc,
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{field: false, "updatedAt": time.Now()}}); err != nil {
			return err
		}
	}
	return nil
}

// packageSaveOutcome carries a saved package plus the names unfeatured to
// stay under the landing cap, so the response message can name them.
type packageSaveOutcome struct {
	pkg     models.ServicePackage
	demoted []string
}

func packageSavedMessage(base string, demoted []string) string {
	if len(demoted) == 0 {
		return base
	}
	return base + " Featured cap reached; no longer featured: " + strings.Join(demoted, ", ") + "."
}

func loadPackage(ctx context.Context, serviceID, id string) (*models.ServicePackage, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid package id")
	}

	var pkg models.ServicePackage
	err = repository.Collection(repository.ServicePackagesCollection).
		FindOne(ctx, bson.M{"_id": objID, "serviceId": serviceID}).Decode(&pkg)
	if err == mongo.ErrNoDocuments {
		return nil, utils.CreateNotFoundError("package")
	}
	if err != nil {
		return nil, utils.CreateInternalServerError("failed to load package")
	}
	return &pkg, nil
}

// CreatePackage adds a pricing tier at the end of the service's sequence,
// enforcing the recommended and featured invariants atomically with the
// insert.
func CreatePackage(c *gin.Context) {
	var input models.PackageCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sid := svc.ID.Hex()

	if input.IsFeaturedOnLanding {
		if reject := service.CheckFeaturedPrice(input.Price); reject != nil {
			respondResult(c, reject)
			return
		}
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		siblings, err := servicePackages(sc, sid)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		pkg := models.ServicePackage{
			ServiceID:           sid,
			Name:                input.Name,
			Description:         input.Description,
			Price:               input.Price,
			IsRecommended:       input.IsRecommended,
			IsFeaturedOnLanding: input.IsFeaturedOnLanding,
			SortOrder:           service.NextSortOrder(packageOrderScope(siblings)),
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		inserted, err := repository.Collection(repository.ServicePackagesCollection).InsertOne(sc, pkg)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			pkg.ID = oid
		}

		flags := append(packageFlags(siblings), service.PackageFlags{
			ID:            pkg.ID.Hex(),
			Name:          pkg.Name,
			IsRecommended: pkg.IsRecommended,
			IsFeatured:    pkg.IsFeaturedOnLanding,
			Price:         pkg.Price,
			UpdatedAt:     pkg.UpdatedAt,
		})

		if pkg.IsRecommended {
			if err := clearFlags(sc, service.PlanRecommendedClear(flags, pkg.ID.Hex()), "isRecommended"); err != nil {
				return nil, err
			}
		}

		var demotedNames []string
		if pkg.IsFeaturedOnLanding {
			demote := service.PlanFeaturedDemotions(flags, pkg.ID.Hex())
			ids := make([]string, 0, len(demote))
			for _, d := range demote {
				ids = append(ids, d.ID)
				demotedNames = append(demotedNames, d.Name)
			}
			if err := clearFlags(sc, ids, "isFeaturedOnLanding"); err != nil {
				return nil, err
			}
		}

		return packageSaveOutcome{pkg: pkg, demoted: demotedNames}, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"serviceId": sid})
		return
	}

	outcome := result.(packageSaveOutcome)
	c.JSON(http.StatusCreated, models.OKResult(packageSavedMessage("Package created.", outcome.demoted), outcome.pkg))
}

// UpdatePackage edits a pricing tier, re-enforcing both uniqueness
// invariants when the flags or price change.
func UpdatePackage(c *gin.Context) {
	var input models.PackageUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sid := svc.ID.Hex()

	pkg, apiErr := loadPackage(ctx, sid, c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	nextPrice := pkg.Price
	if input.Price != nil {
		nextPrice = *input.Price
	}
	nextFeatured := pkg.IsFeaturedOnLanding
	if input.IsFeaturedOnLanding != nil {
		nextFeatured = *input.IsFeaturedOnLanding
	}
	if nextFeatured {
		// also catches dropping the price of an already featured package
		if reject := service.CheckFeaturedPrice(nextPrice); reject != nil {
			respondResult(c, reject)
			return
		}
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		set := bson.M{"updatedAt": now}
		if input.Name != nil {
			set["name"] = *input.Name
		}
		if input.Description != nil {
			set["description"] = *input.Description
		}
		if input.Price != nil {
			set["price"] = *input.Price
		}
		if input.IsRecommended != nil {
			set["isRecommended"] = *input.IsRecommended
		}
		if input.IsFeaturedOnLanding != nil {
			set["isFeaturedOnLanding"] = *input.IsFeaturedOnLanding
		}

		if _, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(sc,
			bson.M{"_id": pkg.ID}, bson.M{"$set": set}); err != nil {
			return nil, err
		}

		siblings, err := servicePackages(sc, sid)
		if err != nil {
			return nil, err
		}
		flags := packageFlags(siblings)

		if input.IsRecommended != nil && *input.IsRecommended {
			if err := clearFlags(sc, service.PlanRecommendedClear(flags, pkg.ID.Hex()), "isRecommended"); err != nil {
				return nil, err
			}
		}

		var demotedNames []string
		if nextFeatured {
			demote := service.PlanFeaturedDemotions(flags, pkg.ID.Hex())
			ids := make([]string, 0, len(demote))
			for _, d := range demote {
				ids = append(ids, d.ID)
				demotedNames = append(demotedNames, d.Name)
			}
			if err := clearFlags(sc, ids, "isFeaturedOnLanding"); err != nil {
				return nil, err
			}
		}

		return packageSaveOutcome{demoted: demotedNames}, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}

	outcome := result.(packageSaveOutcome)
	respondResult(c, models.OKResult(packageSavedMessage("Package updated.", outcome.demoted), nil))
}

// DeletePackage removes a pricing tier and densifies the sequence.
func DeletePackage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sid := svc.ID.Hex()

	pkg, apiErr := loadPackage(ctx, sid, c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.ServicePackagesCollection).
			DeleteOne(sc, bson.M{"_id": pkg.ID}); err != nil {
			return nil, err
		}

		siblings, err := servicePackages(sc, sid)
		if err != nil {
			return nil, err
		}
		scope := packageOrderScope(siblings)
		ids := make([]string, 0, len(scope))
		for _, it := range service.SortedByOrder(scope) {
			ids = append(ids, it.ID)
		}
		plan, err := service.PlanReorder(scope, ids)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.ServicePackagesCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Package deleted.", nil))
}

// MovePackage swaps a package with its neighbor in the service's order.
func MovePackage(c *gin.Context) {
	var input models.MoveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sid := svc.ID.Hex()

	pkg, apiErr := loadPackage(ctx, sid, c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		siblings, err := servicePackages(sc, sid)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanSwapMove(packageOrderScope(siblings), pkg.ID.Hex(), service.MoveDirection(input.Direction))
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.ServicePackagesCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// ReorderPackages applies a full permutation of the service's packages.
func ReorderPackages(c *gin.Context) {
	var input models.ReorderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sid := svc.ID.Hex()

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		siblings, err := servicePackages(sc, sid)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanReorder(packageOrderScope(siblings), input.OrderedIDs)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.ServicePackagesCollection), plan)
	})
	if err != nil {
		respondResult(c, models.RejectResult(err.Error(), nil))
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// AddPackageFeature appends a feature line, capped at MaxPackageFeatures.
func AddPackageFeature(c *gin.Context) {
	var input models.FeatureCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	pkg, apiErr := loadPackage(ctx, svc.ID.Hex(), c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// cap checked against a re-read so two concurrent adds cannot both
		// land under it
		fresh, apiErr := loadPackage(sc, svc.ID.Hex(), pkg.ID.Hex())
		if apiErr != nil {
			return nil, apiErr
		}

		if reject := service.CheckFeatureCap(len(fresh.Features) + 1); reject != nil {
			return reject, nil
		}

		next := 0
		for _, f := range fresh.Features {
			if f.SortOrder >= next {
				next = f.SortOrder + 1
			}
		}
		feature := models.PackageItem{
			ID:        uuid.New().String(),
			Label:     input.Label,
			SortOrder: next,
		}

		if _, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(sc,
			bson.M{"_id": fresh.ID},
			bson.M{
				"$push": bson.M{"features": feature},
				"$set":  bson.M{"updatedAt": time.Now()},
			}); err != nil {
			return nil, err
		}

		return feature, nil
	})
	if err != nil {
		if apiErr, ok := err.(*utils.ApiError); ok {
			utils.HandleError(c, apiErr)
			return
		}
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}

	if reject, ok := result.(*models.OpResult); ok {
		respondResult(c, reject)
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Feature added.", result))
}

// UpdatePackageFeature renames one feature line.
func UpdatePackageFeature(c *gin.Context) {
	var input models.FeatureUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}
	featureID := c.Param("featureId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	pkg, apiErr := loadPackage(ctx, svc.ID.Hex(), c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	result, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(ctx,
		bson.M{"_id": pkg.ID, "features.id": featureID},
		bson.M{"$set": bson.M{"features.$.label": input.Label, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}
	if result.MatchedCount == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("feature"))
		return
	}

	respondResult(c, models.OKResult("Feature updated.", nil))
}

// DeletePackageFeature removes one feature line and densifies the list.
func DeletePackageFeature(c *gin.Context) {
	featureID := c.Param("featureId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	pkg, apiErr := loadPackage(ctx, svc.ID.Hex(), c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	remaining := make([]models.PackageItem, 0, len(pkg.Features))
	found := false
	for _, f := range pkg.Features {
		if f.ID == featureID {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	if !found {
		utils.HandleError(c, utils.CreateNotFoundError("feature"))
		return
	}
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].SortOrder < remaining[j].SortOrder })
	for i := range remaining {
		remaining[i].SortOrder = i
	}

	_, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(ctx,
		bson.M{"_id": pkg.ID},
		bson.M{"$set": bson.M{"features": remaining, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Feature deleted.", nil))
}

// MovePackageFeature swaps a feature line with its neighbor.
func MovePackageFeature(c *gin.Context) {
	var input models.MoveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	featureID := c.Param("featureId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, apiErr := loadService(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	pkg, apiErr := loadPackage(ctx, svc.ID.Hex(), c.Param("pkgId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	scope := make([]service.OrderedItem, 0, len(pkg.Features))
	for _, f := range pkg.Features {
		scope = append(scope, service.OrderedItem{ID: f.ID, SortOrder: f.SortOrder})
	}

	plan, err := service.PlanSwapMove(scope, featureID, service.MoveDirection(input.Direction))
	if err != nil {
		utils.HandleError(c, utils.CreateNotFoundError("feature"))
		return
	}

	if len(plan) > 0 {
		order := make(map[string]int, len(plan))
		for _, u := range plan {
			order[u.ID] = u.SortOrder
		}
		features := make([]models.PackageItem, len(pkg.Features))
		copy(features, pkg.Features)
		for i := range features {
			features[i].SortOrder = order[features[i].ID]
		}
		sort.SliceStable(features, func(i, j int) bool { return features[i].SortOrder < features[j].SortOrder })

		_, err := repository.Collection(repository.ServicePackagesCollection).UpdateOne(ctx,
			bson.M{"_id": pkg.ID},
			bson.M{"$set": bson.M{"features": features, "updatedAt": time.Now()}})
		if err != nil {
			respondFailure(c, err, map[string]interface{}{"packageId": pkg.ID.Hex()})
			return
		}
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}
