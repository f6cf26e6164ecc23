package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registeredCourier(t *testing.T) *courier.Courier {
	t.Helper()
	created, err := courier.NewCourier(kernel.NewUUID(), "Ravi Kumar", "+91-98100-12345")
	require.NoError(t, err)
	return created
}

func TestCreateCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateCourierCommand("Ravi Kumar", "+91-98100-12345")
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)

	var persisted *courier.Courier
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*courier.Courier)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateCourierCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.True(t, cmd.CourierID().IsEqual(persisted.ID()))
	assert.Equal(t, "Ravi Kumar", persisted.Name())
	// New couriers start offline with no known position.
	assert.False(t, persisted.IsOnline())
	assert.Nil(t, persisted.Location())
}

func TestUpdateCourierLocationCommandHandler_Handle_RefreshesGeoIndex(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)
	require.NoError(t, courierEntity.SetOnline(true))

	point, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateCourierLocationCommand(courierEntity.ID(), point)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once(),
		courierRepo.On("Update", ctx, courierEntity).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		geoIndex.On("UpsertCourier", ctx, courierEntity.ID(), point).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateCourierLocationCommandHandler(factory, geoIndex, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, courierEntity.Location())
	assert.True(t, point.IsEqual(*courierEntity.Location()))
	assert.True(t, courierEntity.HasFreshLocation(time.Now(), time.Minute))
	geoIndex.AssertExpectations(t)
}

func TestUpdateCourierLocationCommandHandler_Handle_OfflineCourierSkipsIndex(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)

	point, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateCourierLocationCommand(courierEntity.ID(), point)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once()
	courierRepo.On("Update", ctx, courierEntity).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateCourierLocationCommandHandler(factory, geoIndex, discardLogger())
	err = handler.Handle(ctx, cmd)

	// The position is persisted but an offline courier never enters the index.
	require.NoError(t, err)
	require.NotNil(t, courierEntity.Location())
	geoIndex.AssertNotCalled(t, "UpsertCourier", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCourierLocationCommandHandler_Handle_IndexFailureIsTolerated(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)
	require.NoError(t, courierEntity.SetOnline(true))

	point, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateCourierLocationCommand(courierEntity.ID(), point)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once()
	courierRepo.On("Update", ctx, courierEntity).Return(nil).Once()
	geoIndex.On("UpsertCourier", ctx, courierEntity.ID(), point).
		Return(errors.New("redis unavailable")).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateCourierLocationCommandHandler(factory, geoIndex, discardLogger())

	require.NoError(t, handler.Handle(ctx, cmd))
}

func TestSetCourierAvailabilityCommandHandler_Handle_GoingOnlinePublishesPosition(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)
	point, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	require.NoError(t, courierEntity.ReportLocation(point, time.Now()))

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierEntity.ID(), true, "push:device-42")
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once()
	courierRepo.On("Update", ctx, courierEntity).Return(nil).Once()
	geoIndex.On("UpsertCourier", ctx, courierEntity.ID(), point).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetCourierAvailabilityCommandHandler(factory, geoIndex, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, courierEntity.IsOnline())
	assert.Equal(t, "push:device-42", courierEntity.ChannelID())
	geoIndex.AssertExpectations(t)
}

func TestSetCourierAvailabilityCommandHandler_Handle_GoingOfflineRemovesFromIndex(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)
	require.NoError(t, courierEntity.SetOnline(true))

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierEntity.ID(), false, "")
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once()
	courierRepo.On("Update", ctx, courierEntity).Return(nil).Once()
	geoIndex.On("RemoveCourier", ctx, courierEntity.ID()).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetCourierAvailabilityCommandHandler(factory, geoIndex, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, courierEntity.IsOnline())
	geoIndex.AssertExpectations(t)
}

func TestSetCourierAvailabilityCommandHandler_Handle_OnlineWithoutLocationSkipsIndex(t *testing.T) {
	ctx := t.Context()
	courierEntity := registeredCourier(t)

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierEntity.ID(), true, "")
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockCourierUoW)
	geoIndex := new(MockGeoIndex)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	courierRepo.On("Get", ctx, courierEntity.ID()).Return(courierEntity, nil).Once()
	courierRepo.On("Update", ctx, courierEntity).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetCourierAvailabilityCommandHandler(factory, geoIndex, discardLogger())

	require.NoError(t, handler.Handle(ctx, cmd))
	geoIndex.AssertNotCalled(t, "UpsertCourier", mock.Anything, mock.Anything, mock.Anything)
}
